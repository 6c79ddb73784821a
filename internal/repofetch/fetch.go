package repofetch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

var (
	// ErrInvalidRepo means the URL failed validation; no network or
	// filesystem operation was attempted.
	ErrInvalidRepo = errors.New("repofetch: invalid repository URL")
	// ErrCloneFailed means the clone itself errored (not found, private,
	// network failure). Never retried automatically.
	ErrCloneFailed = errors.New("repofetch: clone failed")
	// ErrCloneTimeout is a clone that exceeded its deadline.
	ErrCloneTimeout = errors.New("repofetch: clone timed out")
)

// Owner must not contain dots; the repository name may. Validation happens
// before any I/O, so attacker-controlled strings never reach git or the
// filesystem.
var repoURLPattern = regexp.MustCompile(`^https?://github\.com/[A-Za-z0-9_-]+/[A-Za-z0-9._-]+(\.git)?$`)

// ValidateURL checks that raw looks like a public GitHub repository URL.
func ValidateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("%w: empty URL", ErrInvalidRepo)
	}
	if !repoURLPattern.MatchString(raw) {
		return fmt.Errorf("%w: %q (expected https://github.com/<owner>/<repository>)", ErrInvalidRepo, raw)
	}
	if strings.Contains(raw, "..") {
		return fmt.Errorf("%w: %q contains a traversal segment", ErrInvalidRepo, raw)
	}
	return nil
}

// RepoName extracts the repository name from a validated URL.
func RepoName(raw string) string {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "/")
	raw = strings.TrimSuffix(raw, ".git")
	if i := strings.LastIndexByte(raw, '/'); i >= 0 {
		return raw[i+1:]
	}
	return raw
}

// Snapshot is a read-only materialized clone of a repository. It is private
// to one request and must be closed on every exit path.
type Snapshot struct {
	URL  string
	Name string
	Dir  string

	closeOnce sync.Once
}

// Close removes the clone directory. Safe to call more than once.
func (s *Snapshot) Close() {
	if s == nil {
		return
	}
	s.closeOnce.Do(func() {
		if s.Dir == "" {
			return
		}
		if err := os.RemoveAll(s.Dir); err != nil {
			log.Printf("repofetch: cleanup of %s failed: %v", s.Dir, err)
		}
	})
}

// Clone validates rawURL and performs a shallow clone of the default branch
// into a fresh temporary directory. The directory is removed before returning
// on any failure.
func Clone(ctx context.Context, rawURL string, timeout time.Duration) (*Snapshot, error) {
	rawURL = strings.TrimSpace(rawURL)
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	cloneURL := rawURL
	if !strings.HasSuffix(cloneURL, ".git") {
		cloneURL += ".git"
	}

	dir, err := os.MkdirTemp("", "codearch-*")
	if err != nil {
		return nil, fmt.Errorf("%w: temp dir: %v", ErrCloneFailed, err)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	_, err = git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:          cloneURL,
		Depth:        1,
		SingleBranch: true,
		Tags:         git.NoTags,
	})
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, classifyCloneError(ctx, rawURL, err)
	}

	return &Snapshot{URL: rawURL, Name: RepoName(rawURL), Dir: dir}, nil
}

func classifyCloneError(ctx context.Context, rawURL string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrCloneTimeout, rawURL)
	}
	switch {
	case errors.Is(err, transport.ErrRepositoryNotFound):
		return fmt.Errorf("%w: repository not found: %s (check the URL and that it is public)", ErrCloneFailed, rawURL)
	case errors.Is(err, transport.ErrAuthenticationRequired), errors.Is(err, transport.ErrAuthorizationFailed):
		return fmt.Errorf("%w: access denied: %s (private repositories are not supported)", ErrCloneFailed, rawURL)
	default:
		return fmt.Errorf("%w: %v", ErrCloneFailed, err)
	}
}
