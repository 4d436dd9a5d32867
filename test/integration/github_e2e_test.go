//go:build integration && github_e2e
// +build integration,github_e2e

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type applyOutput struct {
	Resource string `json:"resource"`
	Changed  bool   `json:"changed"`
	Op       string `json:"op"`
}

// e2eEnv returns the token and organization, skipping when either is unset.
// The token must have admin access to the test organization.
func e2eEnv(t *testing.T) (string, string) {
	t.Helper()
	if os.Getenv("GITHUB_E2E_TESTS") != "true" {
		t.Skip("Skipping E2E tests. Set GITHUB_E2E_TESTS=true to run.")
	}
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		t.Skip("GITHUB_TOKEN not set, skipping E2E tests")
	}
	org := os.Getenv("GITHUB_TEST_ORG")
	if org == "" {
		t.Skip("GITHUB_TEST_ORG not set, skipping E2E tests")
	}
	return token, org
}

func apply(t *testing.T, binaryPath, token, manifest string, extra ...string) applyOutput {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0644))

	args := append([]string{"apply", path, "-o", "json"}, extra...)
	output, err := run(t, binaryPath, []string{"GITHUB_TOKEN=" + token}, args...)
	require.NoError(t, err, output)

	var result applyOutput
	require.NoError(t, json.Unmarshal([]byte(output), &result), output)
	return result
}

func TestGitHubE2ERepositoryLifecycle(t *testing.T) {
	token, org := e2eEnv(t)
	binaryPath := getBinaryPath(t)
	repo := fmt.Sprintf("ghdeclare-test-%d", time.Now().Unix())
	t.Cleanup(func() { cleanupTestRepository(t, token, org, repo) })

	present := fmt.Sprintf("kind: repository\nstate: present\nname: %s/%s\nrepository:\n  private: true\n  description: ghdeclare e2e\n  has_wiki: false\n", org, repo)

	dry := apply(t, binaryPath, token, present, "--dry-run")
	assert.Equal(t, "create", dry.Op)

	created := apply(t, binaryPath, token, present)
	assert.True(t, created.Changed)
	assert.Equal(t, "create", created.Op)

	again := apply(t, binaryPath, token, present)
	assert.False(t, again.Changed)
	assert.Equal(t, "noop", again.Op)

	labels := fmt.Sprintf("kind: labels\nrepo: %s/%s\nlabels:\n  - name: ghdeclare\n    color: \"#0E8A16\"\n", org, repo)
	labelled := apply(t, binaryPath, token, labels)
	assert.True(t, labelled.Changed)
	assert.False(t, apply(t, binaryPath, token, labels).Changed)

	absent := fmt.Sprintf("kind: repository\nstate: absent\nname: %s/%s\n", org, repo)
	deleted := apply(t, binaryPath, token, absent)
	assert.Equal(t, "delete", deleted.Op)
	assert.False(t, apply(t, binaryPath, token, absent).Changed)
}

func TestGitHubE2ETeamLifecycle(t *testing.T) {
	token, org := e2eEnv(t)
	binaryPath := getBinaryPath(t)
	team := fmt.Sprintf("ghdeclare test %d", time.Now().Unix())

	present := fmt.Sprintf("kind: team\norganization: %s\nteam:\n  name: %s\n  privacy: closed\n", org, team)
	created := apply(t, binaryPath, token, present)
	assert.Equal(t, "create", created.Op)
	assert.False(t, apply(t, binaryPath, token, present).Changed)

	deleted := apply(t, binaryPath, token, fmt.Sprintf("kind: team\norganization: %s\nstate: absent\nteam:\n  name: %s\n", org, team))
	assert.Equal(t, "delete", deleted.Op)
}

func cleanupTestRepository(t *testing.T, token, owner, repoName string) {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	_, resp, err := client.Repositories.Get(ctx, owner, repoName)
	if err != nil {
		if resp != nil && resp.StatusCode == 404 {
			return
		}
		t.Logf("Warning: Failed to check if repository exists for cleanup: %v", err)
		return
	}

	if _, err := client.Repositories.Delete(ctx, owner, repoName); err != nil {
		t.Logf("Warning: Failed to cleanup test repository %s/%s: %v", owner, repoName, err)
	}
}
