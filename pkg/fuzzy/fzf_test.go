package fuzzy

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	fzf "github.com/junegunn/fzf/src"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockFzfRunner implements FzfRunner for testing
type MockFzfRunner struct {
	// Pick chooses a line from the input fzf was given.
	Pick     func(lines []string) string
	Code     int
	Err      error
	Received []string
}

// Run drains the input and writes the picked line to the output
func (m *MockFzfRunner) Run(opts *fzf.Options) (int, error) {
	for line := range opts.Input {
		m.Received = append(m.Received, line)
	}
	if m.Err != nil {
		return 0, m.Err
	}
	if m.Pick != nil && m.Code == fzf.ExitOk {
		opts.Output <- m.Pick(m.Received)
	}
	return m.Code, nil
}

func newFzfFinder(t *testing.T, runner FzfRunner) *FzfFinder {
	t.Helper()
	f := NewFzfWithRunner("manifest>", runner)
	require.NoError(t, f.SetOptions([]Option{
		{Value: "labels.yaml", Description: "labels"},
		{Value: "repo.yaml"},
	}))
	return f
}

func TestFzfFinder_Select(t *testing.T) {
	runner := &MockFzfRunner{Pick: func(lines []string) string { return lines[0] }}
	f := newFzfFinder(t, runner)

	value, err := f.Select()
	require.NoError(t, err)
	assert.Equal(t, "labels.yaml", value)
	assert.Equal(t, []string{"labels.yaml  │  labels", "repo.yaml"}, runner.Received)
}

func TestFzfFinder_Cancelled(t *testing.T) {
	f := newFzfFinder(t, &MockFzfRunner{Code: fzf.ExitInterrupt})

	_, err := f.Select()
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestFzfFinder_NoSelection(t *testing.T) {
	f := newFzfFinder(t, &MockFzfRunner{})

	_, err := f.Select()
	assert.EqualError(t, err, "no selection made")
}

func TestFzfFinder_FallsBackWhenFzfFails(t *testing.T) {
	var out bytes.Buffer
	f := newFzfFinder(t, &MockFzfRunner{Err: errors.New("no tty")})
	f.in = strings.NewReader("2\n")
	f.out = &out

	value, err := f.Select()
	require.NoError(t, err)
	assert.Equal(t, "repo.yaml", value)
	assert.Contains(t, out.String(), "manifest>")
}

func TestFzfFinder_SetOptions(t *testing.T) {
	f := NewFzf("manifest>")
	assert.Error(t, f.SetOptions(nil))

	_, err := f.Select()
	assert.EqualError(t, err, "no options available")
}
