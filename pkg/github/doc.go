// Package github reconciles GitHub resources towards a declared state.
// It covers repositories, repository label sets, organization teams, team
// rosters and repository collaborators.
//
// The package includes:
// - Gateway interfaces for GitHub API operations and a go-github Client
// - one Reconciler per resource kind, each returning a Result
// - Optional fields and the Diff engine that computes minimal updates
// - Manifest loading and validation for the CLI
package github
