package ui

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"

	"musicgenie/internal/textutil"
	"musicgenie/internal/youtube"
)

// Selection is the outcome of a candidate pick. Cancelled selections carry
// no index.
type Selection struct {
	Index     int
	Cancelled bool
}

// Prompter asks the user to choose and confirm. Implementations must treat
// an interrupt as a cancellation, not an error.
type Prompter interface {
	PickCandidate(candidates []youtube.Candidate) (Selection, error)
	Confirm(message string, defaultYes bool) (bool, error)
}

const cancelOption = "Cancel"

// SurveyPrompter drives interactive terminal prompts. On a non-interactive
// stdin it degrades gracefully: picks are cancelled and confirms return
// their default.
type SurveyPrompter struct {
	interactive bool
}

// NewSurveyPrompter detects terminal interactivity from stdin.
func NewSurveyPrompter() *SurveyPrompter {
	fd := os.Stdin.Fd()
	return &SurveyPrompter{
		interactive: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

// PickCandidate implements Prompter.
func (p *SurveyPrompter) PickCandidate(candidates []youtube.Candidate) (Selection, error) {
	if !p.interactive || len(candidates) == 0 {
		return Selection{Cancelled: true}, nil
	}

	options := make([]string, 0, len(candidates)+1)
	for i, c := range candidates {
		options = append(options, fmt.Sprintf("%d. %s by %s (%s)",
			i+1, c.Title, c.Uploader, textutil.FormatDuration(c.Duration)))
	}
	options = append(options, cancelOption)

	var answer string
	prompt := &survey.Select{
		Message:  "Pick a result to download:",
		Options:  options,
		PageSize: 12,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return Selection{Cancelled: true}, nil
		}
		return Selection{}, err
	}
	if answer == cancelOption {
		return Selection{Cancelled: true}, nil
	}

	for i, opt := range options[:len(options)-1] {
		if opt == answer {
			return Selection{Index: i}, nil
		}
	}
	return Selection{Cancelled: true}, nil
}

// Confirm implements Prompter.
func (p *SurveyPrompter) Confirm(message string, defaultYes bool) (bool, error) {
	if !p.interactive {
		return defaultYes, nil
	}

	var answer bool
	prompt := &survey.Confirm{Message: message, Default: defaultYes}
	if err := survey.AskOne(prompt, &answer); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return false, nil
		}
		return false, err
	}
	return answer, nil
}
