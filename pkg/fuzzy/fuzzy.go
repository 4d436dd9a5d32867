package fuzzy

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrCancelled is returned when the user leaves a finder without choosing.
var ErrCancelled = errors.New("selection cancelled")

// Option represents a selectable option in the fuzzy finder
type Option struct {
	Value       string
	Description string
}

func (o Option) display() string {
	if o.Description == "" {
		return o.Value
	}
	return o.Value + "  │  " + o.Description
}

// Selector picks one option's value
type Selector interface {
	Select() (string, error)
}

// Finder is a line-based finder: the user types a filter or the number of
// an option.
type Finder struct {
	prompt  string
	options []Option
	in      *bufio.Reader
	out     io.Writer
}

// New creates a new fuzzy finder with the given prompt
func New(prompt string, in io.Reader, out io.Writer) *Finder {
	return &Finder{
		prompt:  prompt,
		options: make([]Option, 0),
		in:      bufio.NewReader(in),
		out:     out,
	}
}

// AddOption adds an option to the fuzzy finder
func (f *Finder) AddOption(value, description string) {
	f.options = append(f.options, Option{
		Value:       value,
		Description: description,
	})
}

// Select lists the options and reads a choice. Input that is not a number
// narrows the list; a filter matching exactly one option selects it.
func (f *Finder) Select() (string, error) {
	if len(f.options) == 0 {
		return "", errors.New("no options available")
	}

	shown := f.options
	for {
		fmt.Fprintln(f.out, f.prompt)
		fmt.Fprintln(f.out, strings.Repeat("-", 50))
		for i, option := range shown {
			fmt.Fprintf(f.out, "%d. %s\n", i+1, option.display())
		}
		fmt.Fprintf(f.out, "\nFilter or select (1-%d): ", len(shown))

		input, err := f.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		input = strings.TrimSpace(input)
		if errors.Is(err, io.EOF) && input == "" {
			return "", ErrCancelled
		}

		switch {
		case input == "":
			shown = f.options
			continue
		case isNumber(input):
			n, _ := strconv.Atoi(input)
			if n >= 1 && n <= len(shown) {
				return shown[n-1].Value, nil
			}
			fmt.Fprintf(f.out, "Selection %d is out of range (1-%d)\n\n", n, len(shown))
			continue
		}

		filtered := f.filterOptions(input)
		switch len(filtered) {
		case 0:
			fmt.Fprintf(f.out, "No options match filter: %s\n\n", input)
		case 1:
			return filtered[0].Value, nil
		default:
			shown = filtered
		}
	}
}

// filterOptions filters options based on the input string
func (f *Finder) filterOptions(filter string) []Option {
	filter = strings.ToLower(filter)
	var filtered []Option

	for _, option := range f.options {
		// Check if filter matches value or description
		if strings.Contains(strings.ToLower(option.Value), filter) ||
			strings.Contains(strings.ToLower(option.Description), filter) {
			filtered = append(filtered, option)
		}
	}

	return filtered
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
