package operator

import "fmt"

// ChooseAnswer scripts one Choose response. None selects the implicit "None"
// entry.
type ChooseAnswer struct {
	Value int64
	None  bool
}

// Script is a scripted operator for tests. Answers are consumed in order per
// prompt type; running out of answers fails the interaction, which keeps
// tests honest about how many prompts their scenario produces.
type Script struct {
	ChooseAnswers  []ChooseAnswer
	ConfirmAnswers []bool
	InputAnswers   []string
	MultiAnswers   [][]int64

	ChooseCalls  []string
	ConfirmCalls []string
	InputCalls   []string
	MultiCalls   []string
	Messages     []string
}

func (s *Script) Choose(prompt string, options []Option) (int64, bool, error) {
	s.ChooseCalls = append(s.ChooseCalls, prompt)
	if len(s.ChooseAnswers) == 0 {
		return 0, false, fmt.Errorf("unscripted choose prompt: %q", prompt)
	}
	answer := s.ChooseAnswers[0]
	s.ChooseAnswers = s.ChooseAnswers[1:]
	if answer.None {
		return 0, false, nil
	}
	return answer.Value, true, nil
}

func (s *Script) MultiChoose(prompt string, options []Option) ([]int64, error) {
	s.MultiCalls = append(s.MultiCalls, prompt)
	if len(s.MultiAnswers) == 0 {
		return nil, fmt.Errorf("unscripted multi-choose prompt: %q", prompt)
	}
	answer := s.MultiAnswers[0]
	s.MultiAnswers = s.MultiAnswers[1:]
	return answer, nil
}

func (s *Script) Confirm(prompt string) (bool, error) {
	s.ConfirmCalls = append(s.ConfirmCalls, prompt)
	if len(s.ConfirmAnswers) == 0 {
		return false, fmt.Errorf("unscripted confirm prompt: %q", prompt)
	}
	answer := s.ConfirmAnswers[0]
	s.ConfirmAnswers = s.ConfirmAnswers[1:]
	return answer, nil
}

func (s *Script) Input(prompt string) (string, error) {
	s.InputCalls = append(s.InputCalls, prompt)
	if len(s.InputAnswers) == 0 {
		return "", fmt.Errorf("unscripted input prompt: %q", prompt)
	}
	answer := s.InputAnswers[0]
	s.InputAnswers = s.InputAnswers[1:]
	return answer, nil
}

func (s *Script) Title(format string, args ...any)   { s.record(format, args...) }
func (s *Script) Success(format string, args ...any) { s.record(format, args...) }
func (s *Script) Warn(format string, args ...any)    { s.record(format, args...) }
func (s *Script) Error(format string, args ...any)   { s.record(format, args...) }
func (s *Script) Print(format string, args ...any)   { s.record(format, args...) }

func (s *Script) record(format string, args ...any) {
	s.Messages = append(s.Messages, fmt.Sprintf(format, args...))
}

// PromptCount returns the total number of interactive prompts seen.
func (s *Script) PromptCount() int {
	return len(s.ChooseCalls) + len(s.ConfirmCalls) + len(s.InputCalls) + len(s.MultiCalls)
}
