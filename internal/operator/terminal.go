package operator

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// noneValue marks the implicit "None" entry appended to every choice list.
// Destination ids are always positive, so the sentinel cannot collide.
const noneValue int64 = -1

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// Terminal renders interactive prompts on the controlling terminal.
type Terminal struct {
	out io.Writer
}

// NewTerminal constructs a Terminal operator. It fails when stdin is not a
// TTY, since every import session needs a human on the other end.
func NewTerminal() (*Terminal, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return nil, errors.New("interactive import requires a terminal")
	}
	return &Terminal{out: os.Stdout}, nil
}

func (t *Terminal) Choose(prompt string, options []Option) (int64, bool, error) {
	opts := make([]huh.Option[int64], 0, len(options)+1)
	for _, o := range options {
		opts = append(opts, huh.NewOption(o.Label, o.Value))
	}
	opts = append(opts, huh.NewOption("None", noneValue))

	var picked int64
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int64]().Title(prompt).Options(opts...).Value(&picked),
	))
	if err := form.Run(); err != nil {
		return 0, false, fmt.Errorf("choice prompt: %w", err)
	}
	if picked == noneValue {
		return 0, false, nil
	}
	return picked, true, nil
}

func (t *Terminal) MultiChoose(prompt string, options []Option) ([]int64, error) {
	opts := make([]huh.Option[int64], 0, len(options))
	for _, o := range options {
		opts = append(opts, huh.NewOption(o.Label, o.Value))
	}

	var picked []int64
	form := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[int64]().Title(prompt).Options(opts...).Value(&picked),
	))
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("multi-choice prompt: %w", err)
	}
	return picked, nil
}

func (t *Terminal) Confirm(prompt string) (bool, error) {
	var answer bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(prompt).Value(&answer),
	))
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("confirm prompt: %w", err)
	}
	return answer, nil
}

func (t *Terminal) Input(prompt string) (string, error) {
	var answer string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title(prompt).Value(&answer),
	))
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("input prompt: %w", err)
	}
	return answer, nil
}

func (t *Terminal) Title(format string, args ...any) {
	fmt.Fprintln(t.out, titleStyle.Render(fmt.Sprintf(format, args...)))
}

func (t *Terminal) Success(format string, args ...any) {
	fmt.Fprintln(t.out, successStyle.Render(fmt.Sprintf(format, args...)))
}

func (t *Terminal) Warn(format string, args ...any) {
	fmt.Fprintln(t.out, warnStyle.Render(fmt.Sprintf(format, args...)))
}

func (t *Terminal) Error(format string, args ...any) {
	fmt.Fprintln(t.out, errorStyle.Render(fmt.Sprintf(format, args...)))
}

func (t *Terminal) Print(format string, args ...any) {
	fmt.Fprintf(t.out, format+"\n", args...)
}
