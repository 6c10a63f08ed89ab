// Package gitsource keeps local checkouts of git repositories that hold
// markdown card files.
package gitsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// IsGitURL reports whether source names a git remote rather than a local path.
func IsGitURL(source string) bool {
	return strings.HasSuffix(source, ".git") ||
		strings.HasPrefix(source, "git@") ||
		strings.HasPrefix(source, "https://") ||
		strings.HasPrefix(source, "http://")
}

// LocalPath maps a repository URL to a checkout directory under baseDir,
// e.g. https://github.com/u/cards.git -> baseDir/github.com/u/cards.
// URLs whose path would leave baseDir are rejected.
func LocalPath(baseDir, repoURL string) (string, error) {
	parsedURL, err := url.Parse(repoURL)
	if err != nil || (parsedURL.Scheme != "https" && parsedURL.Scheme != "http") {
		// scp-like syntax: git@host:user/repo.git
		if user, rest, ok := strings.Cut(repoURL, "@"); ok && user != "" {
			if host, repoPath, ok := strings.Cut(rest, ":"); ok && host != "" && repoPath != "" {
				return checkoutPath(baseDir, repoURL, host, strings.TrimSuffix(repoPath, ".git"))
			}
		}
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}

	sanitizedPath := strings.TrimSuffix(strings.Trim(parsedURL.Path, "/"), ".git")
	if parsedURL.Host == "" || sanitizedPath == "" {
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}
	return checkoutPath(baseDir, repoURL, parsedURL.Host, sanitizedPath)
}

// checkoutPath joins parts onto baseDir and requires the result to be a
// directory strictly inside baseDir.
func checkoutPath(baseDir, repoURL string, parts ...string) (string, error) {
	p := filepath.Join(append([]string{baseDir}, parts...)...)
	rel, err := filepath.Rel(baseDir, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("git URL %s resolves outside %s", repoURL, baseDir)
	}
	return p, nil
}

// Sync clones a git repository if it doesn't exist at the given path,
// or pulls the latest changes if it does. Progress output goes to progress
// when it is non-nil. A nil logger means slog.Default.
func Sync(ctx context.Context, logger *slog.Logger, repoURL, localPath string, progress io.Writer) error {
	if logger == nil {
		logger = slog.Default()
	}
	_, err := os.Stat(localPath)
	switch {
	case os.IsNotExist(err):
		logger.Info("cloning repository", "url", repoURL, "path", localPath)
		_, err := git.PlainCloneContext(ctx, localPath, false, &git.CloneOptions{
			URL:      repoURL,
			Progress: progress,
		})
		if err != nil {
			return fmt.Errorf("failed to clone repo %s: %w", repoURL, err)
		}
	case err == nil:
		logger.Info("pulling repository", "path", localPath)
		repo, err := git.PlainOpen(localPath)
		if err != nil {
			return fmt.Errorf("failed to open existing repo at %s: %w", localPath, err)
		}

		worktree, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("failed to get worktree for repo at %s: %w", localPath, err)
		}

		err = worktree.PullContext(ctx, &git.PullOptions{
			RemoteName: "origin",
			Progress:   progress,
		})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return fmt.Errorf("failed to pull changes for repo at %s: %w", localPath, err)
		}
	default:
		return fmt.Errorf("error checking path %s: %w", localPath, err)
	}

	return nil
}
