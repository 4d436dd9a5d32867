package fuzzy

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	fzf "github.com/junegunn/fzf/src"
)

// FzfRunner defines the interface for running fzf
type FzfRunner interface {
	Run(opts *fzf.Options) (int, error)
}

// DefaultFzfRunner implements the FzfRunner interface using the real fzf library
type DefaultFzfRunner struct{}

// Run executes fzf with the given options
func (r *DefaultFzfRunner) Run(opts *fzf.Options) (int, error) {
	return fzf.Run(opts)
}

// FzfFinder implements fuzzy finding using the fzf library. When fzf cannot
// start it falls back to the line-based Finder.
type FzfFinder struct {
	options []Option
	prompt  string
	runner  FzfRunner
	in      io.Reader
	out     io.Writer
}

var _ Selector = (*FzfFinder)(nil)

// NewFzf creates a new fzf-style fuzzy finder
func NewFzf(prompt string) *FzfFinder {
	return NewFzfWithRunner(prompt, &DefaultFzfRunner{})
}

// NewFzfWithRunner creates a new fzf-style fuzzy finder with a custom runner (for testing)
func NewFzfWithRunner(prompt string, runner FzfRunner) *FzfFinder {
	return &FzfFinder{
		prompt:  prompt,
		options: make([]Option, 0),
		runner:  runner,
		in:      os.Stdin,
		out:     os.Stderr,
	}
}

// SetOptions sets the available options for selection
func (f *FzfFinder) SetOptions(options []Option) error {
	if options == nil {
		return errors.New("options cannot be nil")
	}

	f.options = make([]Option, len(options))
	copy(f.options, options)
	return nil
}

// Select runs fzf over the options and returns the chosen value
func (f *FzfFinder) Select() (string, error) {
	if len(f.options) == 0 {
		return "", errors.New("no options available")
	}

	opts, err := fzf.ParseOptions(true, []string{
		"--prompt=" + f.prompt + " ",
		"--height=40%",
		"--layout=reverse",
		"--no-multi",
		"--cycle",
		"--tiebreak=length",
		"--no-mouse",
		"--border=none",
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse fzf options: %w", err)
	}

	input := make(chan string, len(f.options))
	for _, option := range f.options {
		input <- option.display()
	}
	close(input)
	output := make(chan string, 1)
	opts.Input = input
	opts.Output = output

	code, err := f.runner.Run(opts)
	if err != nil {
		return f.fallbackSelect()
	}
	if code != fzf.ExitOk {
		return "", ErrCancelled
	}

	select {
	case line := <-output:
		return f.valueOf(line), nil
	default:
		return "", errors.New("no selection made")
	}
}

// valueOf maps a displayed line back to its option value.
func (f *FzfFinder) valueOf(line string) string {
	value := strings.TrimSpace(strings.SplitN(line, "  │  ", 2)[0])
	for _, option := range f.options {
		if option.Value == value {
			return option.Value
		}
	}
	return value
}

func (f *FzfFinder) fallbackSelect() (string, error) {
	finder := New(f.prompt, f.in, f.out)
	for _, option := range f.options {
		finder.AddOption(option.Value, option.Description)
	}
	return finder.Select()
}
