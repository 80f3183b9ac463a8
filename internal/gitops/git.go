package gitops

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Repo drives the git binary for a store tree. Tōtara itself only stages
// and commits; merging, pushing, and conflict resolution stay with the
// surrounding version-control workflow.
type Repo struct {
	root string
}

// Open returns a Repo for root, running `git init` if the directory is not
// yet a repository.
func Open(root string) (*Repo, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, fmt.Errorf("git binary not found in PATH: %w", err)
	}
	if _, err := os.Stat(filepath.Join(root, ".git")); os.IsNotExist(err) {
		if _, err := run(root, "init", "--quiet"); err != nil {
			return nil, fmt.Errorf("failed to init repository: %w", err)
		}
	}
	return &Repo{root: root}, nil
}

// CommitAll stages every change under the tree and commits it with the
// given message. A clean tree is a no-op.
func (r *Repo) CommitAll(message string) error {
	if _, err := run(r.root, "add", "-A"); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}

	// Nothing staged means nothing to commit.
	out, err := run(r.root, "status", "--porcelain")
	if err != nil {
		return fmt.Errorf("failed to check tree status: %w", err)
	}
	if strings.TrimSpace(out) == "" {
		return nil
	}

	if _, err := run(r.root, "commit", "--quiet", "-m", message); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	// Commits must work in CI and fresh environments with no git identity.
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=totara",
		"GIT_AUTHOR_EMAIL=totara@localhost",
		"GIT_COMMITTER_NAME=totara",
		"GIT_COMMITTER_EMAIL=totara@localhost",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
