package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ghdeclare/pkg/config"
	"ghdeclare/pkg/github"
)

// newGateway creates the GitHub gateway; tests replace it.
var newGateway = func(token string, opts github.ClientOptions) (github.Gateway, error) {
	client, err := github.NewClient(token, opts)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func newApplyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apply [manifest.yaml]",
		Short: "Reconcile GitHub towards a manifest",
		Long: `Apply a desired-state manifest to GitHub.

The manifest is validated before any API call. Without an argument, a
manifest from the current directory is picked interactively. Resources are then read,
compared with the manifest, and only the differences are written.

Manifest kinds:
  repository       state, name, repository settings
  labels           repo, state, exclusive, labels
  team             organization, state, team
  team_membership  organization, state, team roster
  collaborators    repo, state, exclusive, collaborators

Examples:
  ghdeclare apply repo.yaml
  ghdeclare apply labels.yaml --dry-run
  ghdeclare apply team.yaml --github-url https://github.example.com/api/v3/ -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := manifestPath(cmd, args)
			if err != nil {
				return err
			}
			return runApply(cmd, opts, path)
		},
	}
}

func runApply(cmd *cobra.Command, opts *options, path string) error {
	format, err := outputFormat(opts)
	if err != nil {
		return err
	}

	// Validate before authenticating so that a broken manifest fails fast.
	manifest, err := github.LoadManifestFromFile(path)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load ghdeclare config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid ghdeclare config: %w", err)
	}

	token := cfg.ResolveToken(opts.token)
	if token == "" {
		return errors.New("GitHub token not found: use --token, set " + config.TokenEnv + " or add github.token to the config file")
	}

	baseURL := opts.githubURL
	if baseURL == "" {
		baseURL = cfg.GitHub.URL
	}
	perPage := opts.perPage
	if f := cmd.Flag("per-page"); (f == nil || !f.Changed) && cfg.GitHub.PerPage > 0 {
		perPage = cfg.GitHub.PerPage
	}
	if perPage < 1 || perPage > 100 {
		return fmt.Errorf("--per-page must be between 1 and 100, got %d", perPage)
	}

	log := newLogger(cmd, opts).WithField("kind", manifest.Kind())

	gw, err := newGateway(token, github.ClientOptions{
		BaseURL: baseURL,
		PerPage: perPage,
		Logger:  log,
	})
	if err != nil {
		return err
	}
	if opts.dryRun {
		gw = github.DryRun(gw, log)
	}

	log.WithField("manifest", path).Debug("applying manifest")
	result, err := manifest.Apply(cmd.Context(), gw, log)
	if github.IsRetryable(err) {
		return fmt.Errorf("%w (transient failure, re-run apply later)", err)
	}
	if err != nil {
		return err
	}

	return writeResult(cmd.OutOrStdout(), format, result)
}
