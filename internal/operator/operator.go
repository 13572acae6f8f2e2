package operator

// Option is one selectable entry in a choice prompt.
type Option struct {
	Label string
	Value int64
}

// Operator is the interactive capability consumed by the resolution code.
// Every prompt blocks until the human answers; there is deliberately no
// timeout.
type Operator interface {
	// Choose presents options plus an implicit "None" entry. The boolean is
	// false when the operator picked None.
	Choose(prompt string, options []Option) (int64, bool, error)
	// MultiChoose presents a multi-select over options.
	MultiChoose(prompt string, options []Option) ([]int64, error)
	// Confirm asks a yes/no question.
	Confirm(prompt string) (bool, error)
	// Input collects a free-text answer.
	Input(prompt string) (string, error)

	// Styled status output, so the operator always knows which entities were
	// imported, skipped, or failed.
	Title(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Print(format string, args ...any)
}
