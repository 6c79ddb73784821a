package repofetch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidateURL_Accepts(t *testing.T) {
	valid := []string{
		"https://github.com/golang/go",
		"https://github.com/golang/go.git",
		"http://github.com/some-user/some_repo",
		"https://github.com/a/b.c",
	}
	for _, url := range valid {
		if err := ValidateURL(url); err != nil {
			t.Errorf("ValidateURL(%q) = %v, want nil", url, err)
		}
	}
}

func TestValidateURL_Rejects(t *testing.T) {
	invalid := []string{
		"",
		"ftp://github.com/x/y",
		"https://gitlab.com/x/y",
		"https://github.com/x",
		"https://github.com/../../etc/passwd",
		"https://github.com/x/y; rm -rf /",
		"https://github.com/x/y&&curl evil",
		"https://github.com/x/y$(id)",
		"https://github.com/x/..",
		"https://github.com/x/y/z",
		"github.com/x/y",
	}
	for _, url := range invalid {
		err := ValidateURL(url)
		if err == nil {
			t.Errorf("ValidateURL(%q) = nil, want error", url)
			continue
		}
		if !errors.Is(err, ErrInvalidRepo) {
			t.Errorf("ValidateURL(%q) = %v, want ErrInvalidRepo", url, err)
		}
	}
}

func TestRepoName(t *testing.T) {
	cases := map[string]string{
		"https://github.com/golang/go":        "go",
		"https://github.com/golang/go.git":    "go",
		"https://github.com/user/my-repo.git": "my-repo",
	}
	for url, want := range cases {
		if got := RepoName(url); got != want {
			t.Errorf("RepoName(%q) = %q, want %q", url, got, want)
		}
	}
}

func TestClone_InvalidURLBeforeIO(t *testing.T) {
	_, err := Clone(context.Background(), "ftp://github.com/x/y", 0)
	if !errors.Is(err, ErrInvalidRepo) {
		t.Fatalf("err = %v, want ErrInvalidRepo", err)
	}
}

func TestSnapshotClose_RemovesDirOnce(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "clone")
	if err := os.MkdirAll(filepath.Join(sub, "src"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	snap := &Snapshot{URL: "https://github.com/x/y", Name: "y", Dir: sub}
	snap.Close()
	if _, err := os.Stat(sub); !os.IsNotExist(err) {
		t.Fatalf("clone dir still exists after Close")
	}
	// Second close is a no-op.
	snap.Close()
}
