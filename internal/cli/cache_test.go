package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClearDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"ab/tree1.json", "ab/cd/art.svg", "top.json"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	count, err := clearDir(dir)
	if err != nil {
		t.Fatalf("clearDir() error: %v", err)
	}
	if count != 3 {
		t.Errorf("clearDir() = %d, want 3", count)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("cache root should survive: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir still has %d entries", len(entries))
	}
}

func TestClearDirMissing(t *testing.T) {
	count, err := clearDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil || count != 0 {
		t.Errorf("clearDir(missing) = %d, %v; want 0, nil", count, err)
	}
}

func TestCachePathCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	cacheDir := filepath.Join(dir, "cache")
	if err := os.WriteFile(cfgPath, []byte("[cache]\ndir = \""+filepath.ToSlash(cacheDir)+"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "--config", cfgPath, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := out; got != cacheDir+"\n" {
		t.Errorf("cache path = %q, want %q", got, cacheDir+"\n")
	}
}
