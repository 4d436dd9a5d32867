package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ghdeclare/pkg/fuzzy"
	"ghdeclare/pkg/github"
)

// newSelector creates the manifest picker; tests replace it.
var newSelector = func(prompt string, options []fuzzy.Option) (fuzzy.Selector, error) {
	finder := fuzzy.NewFzf(prompt)
	if err := finder.SetOptions(options); err != nil {
		return nil, err
	}
	return finder, nil
}

// isInteractive reports whether a picker can be shown; tests replace it.
var isInteractive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// manifestPath returns the manifest named on the command line. Without an
// argument on a terminal, the user picks one of the manifests in the
// current directory.
func manifestPath(_ *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if !isInteractive() {
		return "", errors.New("manifest file required")
	}

	options, err := manifestOptions(".")
	if err != nil {
		return "", err
	}
	if len(options) == 0 {
		return "", errors.New("no manifest files (*.yaml, *.yml) found in the current directory")
	}

	selector, err := newSelector("manifest>", options)
	if err != nil {
		return "", err
	}
	path, err := selector.Select()
	if err != nil {
		return "", fmt.Errorf("failed to select manifest: %w", err)
	}
	return path, nil
}

// manifestOptions lists the YAML files in dir, described by their kind.
func manifestOptions(dir string) ([]fuzzy.Option, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	slices.Sort(paths)

	options := make([]fuzzy.Option, 0, len(paths))
	for _, path := range paths {
		description := "invalid"
		if m, err := github.LoadManifestFromFile(path); err == nil {
			description = string(m.Kind())
		}
		options = append(options, fuzzy.Option{Value: path, Description: description})
	}
	return options, nil
}
