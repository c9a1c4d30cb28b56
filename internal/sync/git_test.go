package sync

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// newTestClone creates a bare remote with one commit on main and returns the
// path of a working clone configured to push to it.
func newTestClone(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}

	remoteDir := t.TempDir()
	run(t, remoteDir, "git", "init", "--bare")

	workDir := t.TempDir()
	run(t, workDir, "git", "clone", remoteDir, "repo")
	repoDir := filepath.Join(workDir, "repo")

	run(t, repoDir, "git", "config", "user.email", "ledger@example.com")
	run(t, repoDir, "git", "config", "user.name", "Ledger")
	run(t, repoDir, "git", "checkout", "-b", "main")

	if err := os.WriteFile(filepath.Join(repoDir, ".gitkeep"), nil, 0o644); err != nil {
		t.Fatalf("write .gitkeep: %v", err)
	}
	run(t, repoDir, "git", "add", ".")
	run(t, repoDir, "git", "commit", "-m", "init")
	run(t, repoDir, "git", "push", "origin", "main")
	return repoDir
}

func commitCount(t *testing.T, dir string) int {
	t.Helper()
	out, err := exec.Command("git", "-C", dir, "rev-list", "--count", "HEAD").Output()
	if err != nil {
		t.Fatalf("rev-list: %v", err)
	}
	var n int
	for _, c := range strings.TrimSpace(string(out)) {
		n = n*10 + int(c-'0')
	}
	return n
}

func TestGitDestination(t *testing.T) {
	repoDir := newTestClone(t)
	dest := NewGitDestination(repoDir, "emissions.jsonl", "main")
	ctx := context.Background()

	data1 := []byte(`{"version":"1","type":"header","emission_count":0}` + "\n")
	if err := dest.Write(ctx, data1); err != nil {
		t.Fatalf("first write: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(repoDir, "emissions.jsonl"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(got) != string(data1) {
		t.Fatalf("file content mismatch: got %q", string(got))
	}
	if n := commitCount(t, repoDir); n != 2 {
		t.Fatalf("expected 2 commits after first write, got %d", n)
	}

	// Same content: nothing to commit.
	if err := dest.Write(ctx, data1); err != nil {
		t.Fatalf("second write (no-op): %v", err)
	}
	if n := commitCount(t, repoDir); n != 2 {
		t.Fatalf("expected no new commit, got %d commits", n)
	}

	data2 := []byte(`{"version":"1","type":"header","emission_count":1}` + "\n")
	if err := dest.Write(ctx, data2); err != nil {
		t.Fatalf("third write: %v", err)
	}
	if n := commitCount(t, repoDir); n != 3 {
		t.Fatalf("expected 3 commits, got %d", n)
	}
}

func TestGitDestination_SubDirectory(t *testing.T) {
	repoDir := newTestClone(t)
	dest := NewGitDestination(repoDir, "data/emissions.jsonl", "main")

	data := []byte(`{"type":"header"}` + "\n")
	if err := dest.Write(context.Background(), data); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(repoDir, "data", "emissions.jsonl"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(got) != string(data) {
		t.Fatalf("content mismatch: got %q", string(got))
	}
}

func TestGitDestination_MissingBranch(t *testing.T) {
	repoDir := newTestClone(t)
	dest := NewGitDestination(repoDir, "emissions.jsonl", "does-not-exist")

	err := dest.Write(context.Background(), []byte("x\n"))
	if err == nil || !strings.Contains(err.Error(), "git checkout") {
		t.Fatalf("expected checkout error, got %v", err)
	}
}

func TestGitDestination_Name(t *testing.T) {
	dest := NewGitDestination("/srv/backup", "emissions.jsonl", "main")
	if got := dest.Name(); got != "git:/srv/backup/emissions.jsonl@main" {
		t.Fatalf("Name = %q", got)
	}
}

func run(t *testing.T, dir string, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("%s %v failed: %v\n%s", name, args, err, out)
	}
}
