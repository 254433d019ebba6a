package agentrules

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInstall_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	res, err := Install(dir)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if !res.Created || res.Message != ".cursorrules created successfully!" {
		t.Fatalf("unexpected result %+v", res)
	}
	b, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != Content {
		t.Fatalf("unexpected content:\n%s", b)
	}
	if !strings.Contains(string(b), "run `vibeshield`") {
		t.Fatal("expected the scan command in the rules")
	}
}

func TestInstall_AppendsToExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("Use tabs."), 0o600); err != nil {
		t.Fatal(err)
	}

	res, err := Install(dir)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if res.Created || res.Message != "Vibe Shield rules appended to existing .cursorrules" {
		t.Fatalf("unexpected result %+v", res)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "Use tabs.\n\n"+Content {
		t.Fatalf("unexpected content:\n%q", b)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected existing mode kept, got %v", info.Mode().Perm())
	}
}

func TestInstall_RefusesWhenPresent(t *testing.T) {
	for _, existing := range []string{"run npx vibe-shield", "# Vibe Shield Security Rules", "vibeshield scan ."} {
		dir := t.TempDir()
		path := filepath.Join(dir, FileName)
		if err := os.WriteFile(path, []byte(existing), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := Install(dir)
		if !errors.Is(err, ErrAlreadyInstalled) {
			t.Fatalf("existing %q: expected ErrAlreadyInstalled, got %v", existing, err)
		}
		b, _ := os.ReadFile(path)
		if string(b) != existing {
			t.Fatalf("file was modified: %q", b)
		}
	}
}

func TestInstall_SecondRunRefuses(t *testing.T) {
	dir := t.TempDir()
	if _, err := Install(dir); err != nil {
		t.Fatal(err)
	}
	if _, err := Install(dir); !errors.Is(err, ErrAlreadyInstalled) {
		t.Fatalf("expected ErrAlreadyInstalled, got %v", err)
	}
}

func TestInstall_RefusesSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "elsewhere")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, filepath.Join(dir, FileName)); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if _, err := Install(dir); err == nil {
		t.Fatal("expected symlink to be refused")
	}
}
