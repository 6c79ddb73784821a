package scan

import (
	"strings"
	"testing"
)

func TestBuildCorpus_HeadersAndOrder(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.py", "alpha")
	write(t, root, "b.py", "beta")

	_, files, err := BuildTree(root, "demo")
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	c := BuildCorpus(root, files, 10_000)

	if c.Files != 2 || c.OmittedFiles != 0 {
		t.Fatalf("files=%d omitted=%d", c.Files, c.OmittedFiles)
	}
	ia := strings.Index(c.Text, "File: a.py")
	ib := strings.Index(c.Text, "File: b.py")
	if ia < 0 || ib < 0 || ia > ib {
		t.Fatalf("headers missing or out of order: a=%d b=%d", ia, ib)
	}
	if !strings.Contains(c.Text, "alpha") || !strings.Contains(c.Text, "beta") {
		t.Fatalf("content missing:\n%s", c.Text)
	}
}

func TestBuildCorpus_BudgetOmitsWholeFiles(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.py", strings.Repeat("x", 300))
	write(t, root, "b.py", strings.Repeat("y", 300))
	write(t, root, "c.py", strings.Repeat("z", 300))

	_, files, err := BuildTree(root, "demo")
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	// Budget fits one file plus its header, not two.
	c := BuildCorpus(root, files, 500)

	if c.Files != 1 {
		t.Fatalf("files = %d, want 1", c.Files)
	}
	if c.OmittedFiles != 2 {
		t.Fatalf("omitted = %d, want 2", c.OmittedFiles)
	}
	if strings.Contains(c.Text, "yyy") || strings.Contains(c.Text, "zzz") {
		t.Fatalf("omitted file content leaked into corpus")
	}
}

func TestBuildCorpus_Deterministic(t *testing.T) {
	root := t.TempDir()
	write(t, root, "m/a.py", "one")
	write(t, root, "n/b.js", "two")

	_, files, err := BuildTree(root, "demo")
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	first := BuildCorpus(root, files, 10_000)
	for i := 0; i < 3; i++ {
		if got := BuildCorpus(root, files, 10_000); got.Text != first.Text {
			t.Fatalf("run %d corpus differs", i)
		}
	}
}
