package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func collect(ch <-chan string) []string {
	var out []string
	for v := range ch {
		out = append(out, v)
	}
	return out
}

func TestGenerateTargets_SingleDomain(t *testing.T) {
	got := collect(GenerateTargets("example.com"))
	if len(got) != 1 || got[0] != "example.com" {
		t.Fatalf("expected [example.com], got %v", got)
	}
}

func TestGenerateTargets_CommaList(t *testing.T) {
	got := collect(GenerateTargets("a.com, b.org ,c.net"))
	want := []string{"a.com", "b.org", "c.net"}
	if len(got) != len(want) {
		t.Fatalf("expected %d targets, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("target %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestGenerateTargets_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.txt")
	content := "example.com\n\n# comment line\nhas space.com\nother.org\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got := collect(GenerateTargets(path))
	want := []string{"example.com", "other.org"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("target %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}
