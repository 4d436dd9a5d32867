package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ghdeclare/pkg/github"
)

// options holds the persistent flags shared by every command
type options struct {
	token     string
	githubURL string
	perPage   int
	output    string
	dryRun    bool
	verbose   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "ghdeclare",
		Short: "Declarative management of GitHub repositories, labels and teams",
		Long: `ghdeclare reconciles GitHub towards a desired state written in YAML.

Each manifest declares one resource kind: a repository, the label set of a
repository, an organization team, the roster of a team, or the direct
collaborators of a repository. Applying a manifest twice makes no further
changes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.token, "token", "", "GitHub token (defaults to $GITHUB_TOKEN, then github.token in the config file)")
	flags.StringVar(&opts.githubURL, "github-url", "", "GitHub API base URL, for GitHub Enterprise Server")
	flags.IntVar(&opts.perPage, "per-page", github.DefaultPerPage, "page size for listing calls (1-100)")
	flags.StringVarP(&opts.output, "output", "o", "", "output format: json or table (default table on a terminal, json otherwise)")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "show what would change without changing anything")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log every reconciliation decision")

	rootCmd.AddCommand(newApplyCmd(opts))
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newInitCmd())

	return rootCmd
}

// Execute runs the command tree and exits non-zero on failure
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the run's logger. Logs go to stderr so that stdout only
// carries the result.
func newLogger(cmd *cobra.Command, opts *options) logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.InfoLevel)
	if opts.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger.WithField("run", uuid.NewString())
}

// outputFormat resolves --output, defaulting on whether stdout is a terminal.
func outputFormat(opts *options) (string, error) {
	switch opts.output {
	case formatJSON, formatTable:
		return opts.output, nil
	case "":
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return formatTable, nil
		}
		return formatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format %q: use json or table", opts.output)
	}
}
