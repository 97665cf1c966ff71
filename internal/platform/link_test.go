package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func makeTree(t *testing.T, root string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(root, "lib"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "package.json"), []byte(`{"main":"lib/index.js"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "lib", "index.js"), []byte("module.exports = () => {}"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestCreateDirLink(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "store", "_init@1.0.0@init")
	makeTree(t, target)

	link := filepath.Join(tmp, "root", "node_modules", "init")
	if err := CreateDirLink(target, link); err != nil {
		t.Fatalf("CreateDirLink failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(link, "lib", "index.js"))
	if err != nil {
		t.Fatalf("reading through link: %v", err)
	}
	if string(data) != "module.exports = () => {}" {
		t.Errorf("content = %q", data)
	}

	if runtime.GOOS != "windows" {
		got, err := os.Readlink(link)
		if err != nil {
			t.Fatalf("Readlink failed: %v", err)
		}
		if got != target {
			t.Errorf("link target = %q, want %q", got, target)
		}
	}
}

func TestCreateDirLink_Replaces(t *testing.T) {
	tmp := t.TempDir()
	v1 := filepath.Join(tmp, "v1")
	v2 := filepath.Join(tmp, "v2")
	makeTree(t, v1)
	makeTree(t, v2)
	if err := os.WriteFile(filepath.Join(v2, "VERSION"), []byte("2"), 0644); err != nil {
		t.Fatal(err)
	}

	link := filepath.Join(tmp, "node_modules", "pkg")
	if err := CreateDirLink(v1, link); err != nil {
		t.Fatal(err)
	}
	if err := CreateDirLink(v2, link); err != nil {
		t.Fatalf("relinking failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(link, "VERSION")); err != nil {
		t.Errorf("link does not point at v2: %v", err)
	}
}

func TestRemoveLink(t *testing.T) {
	tmp := t.TempDir()

	// Missing path is fine.
	if err := RemoveLink(filepath.Join(tmp, "missing")); err != nil {
		t.Errorf("RemoveLink(missing) = %v", err)
	}

	// A real directory is refused.
	dir := filepath.Join(tmp, "real")
	makeTree(t, dir)
	if err := RemoveLink(dir); err == nil {
		t.Error("expected error removing a real directory")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("real directory was removed: %v", err)
	}

	// A fallback copy carries the marker and is removed.
	copyDir := filepath.Join(tmp, "copy")
	makeTree(t, copyDir)
	if err := os.WriteFile(filepath.Join(copyDir, linkMarker), []byte(dir), 0644); err != nil {
		t.Fatal(err)
	}
	if err := RemoveLink(copyDir); err != nil {
		t.Fatalf("RemoveLink(copy) = %v", err)
	}
	if _, err := os.Stat(copyDir); !os.IsNotExist(err) {
		t.Error("fallback copy still present")
	}
}

func TestCopyDir(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	makeTree(t, src)
	if err := os.MkdirAll(filepath.Join(src, ".git"), 0755); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(tmp, "dst")
	if err := CopyDir(src, dst); err != nil {
		t.Fatalf("CopyDir failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "lib", "index.js")); err != nil {
		t.Errorf("nested file not copied: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, ".git")); !os.IsNotExist(err) {
		t.Error(".git should be excluded")
	}
}
