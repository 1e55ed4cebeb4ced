package vault

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileSystemVault(t *testing.T) {
	t.Run("creates directory structure", func(t *testing.T) {
		tmpDir := t.TempDir()
		root := filepath.Join(tmpDir, "vault")

		v, err := NewFileSystemVault("test", root)
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}

		if _, err := os.Stat(filepath.Join(root, "snapshots")); err != nil {
			t.Errorf("snapshots directory not created: %v", err)
		}

		if v.name != "test" {
			t.Errorf("name = %q, want %q", v.name, "test")
		}
	})

	t.Run("works with existing directory", func(t *testing.T) {
		if _, err := NewFileSystemVault("test", t.TempDir()); err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}
	})
}

func TestFileSystemVault_PutSnapshot(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		size    int64
		wantErr bool
	}{
		{name: "store snapshot successfully", data: "hello world", size: 11},
		{name: "size mismatch", data: "hello", size: 100, wantErr: true},
		{name: "empty snapshot", data: "", size: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewFileSystemVault("test", t.TempDir())
			if err != nil {
				t.Fatalf("NewFileSystemVault() error = %v", err)
			}

			err = v.PutSnapshot("host-1", "index", strings.NewReader(tt.data), tt.size, 42)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PutSnapshot() error = %v, wantErr %v", err, tt.wantErr)
			}

			dataPath := filepath.Join(v.snapshotsDir, "host-1", "index")
			if tt.wantErr {
				if _, err := os.Stat(dataPath); !os.IsNotExist(err) {
					t.Error("snapshot file should not exist after failed write")
				}
				if version, _ := v.SnapshotVersion("host-1", "index"); version != 0 {
					t.Errorf("SnapshotVersion() = %d, want 0 after failed write", version)
				}
				return
			}

			got, err := os.ReadFile(dataPath)
			if err != nil {
				t.Fatalf("failed to read stored snapshot: %v", err)
			}
			if string(got) != tt.data {
				t.Errorf("stored = %q, want %q", got, tt.data)
			}
		})
	}
}

func TestFileSystemVault_GetSnapshot(t *testing.T) {
	v, err := NewFileSystemVault("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	t.Run("retrieves existing snapshot", func(t *testing.T) {
		if err := v.PutSnapshot("h", "index", strings.NewReader("db"), 2, 5); err != nil {
			t.Fatalf("PutSnapshot() error = %v", err)
		}

		var buf bytes.Buffer
		if err := v.GetSnapshot("h", "index", &buf); err != nil {
			t.Fatalf("GetSnapshot() error = %v", err)
		}
		if buf.String() != "db" {
			t.Errorf("GetSnapshot() = %q, want %q", buf.String(), "db")
		}
	})

	t.Run("missing snapshot", func(t *testing.T) {
		var buf bytes.Buffer
		err := v.GetSnapshot("other-host", "index", &buf)
		if err == nil {
			t.Fatal("GetSnapshot() expected error for missing snapshot")
		}
		if !strings.Contains(err.Error(), "not found") {
			t.Errorf("error = %v, want error containing 'not found'", err)
		}
	})
}

func TestFileSystemVault_SnapshotVersion(t *testing.T) {
	v, err := NewFileSystemVault("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	t.Run("zero when absent", func(t *testing.T) {
		version, err := v.SnapshotVersion("h", "index")
		if err != nil {
			t.Fatalf("SnapshotVersion() error = %v", err)
		}
		if version != 0 {
			t.Errorf("SnapshotVersion() = %d, want 0", version)
		}
	})

	t.Run("tracks latest put", func(t *testing.T) {
		for _, want := range []int64{1700000000, 1700000100} {
			if err := v.PutSnapshot("h", "index", strings.NewReader("x"), 1, want); err != nil {
				t.Fatalf("PutSnapshot() error = %v", err)
			}
			got, err := v.SnapshotVersion("h", "index")
			if err != nil {
				t.Fatalf("SnapshotVersion() error = %v", err)
			}
			if got != want {
				t.Errorf("SnapshotVersion() = %d, want %d", got, want)
			}
		}
	})

	t.Run("corrupt version file", func(t *testing.T) {
		dir := filepath.Join(v.snapshotsDir, "corrupt")
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "index.version"), []byte("not a number"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := v.SnapshotVersion("corrupt", "index"); err == nil {
			t.Error("SnapshotVersion() expected error for corrupt version file")
		}
	})
}

func TestFileSystemVault_ValidateSetup(t *testing.T) {
	t.Run("valid setup", func(t *testing.T) {
		v, err := NewFileSystemVault("test", t.TempDir())
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}
		if err := v.ValidateSetup(); err != nil {
			t.Errorf("ValidateSetup() error = %v", err)
		}
	})

	t.Run("missing root directory", func(t *testing.T) {
		v := &FileSystemVault{
			name:         "test",
			root:         "/nonexistent/path",
			snapshotsDir: "/nonexistent/path/snapshots",
		}
		if err := v.ValidateSetup(); err == nil {
			t.Error("ValidateSetup() expected error for missing root")
		}
	})
}

func TestFileSystemVault_AtomicWrite(t *testing.T) {
	v, err := NewFileSystemVault("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	data := "hello world"
	if err := v.PutSnapshot("h", "index", strings.NewReader(data), int64(len(data)), 1); err != nil {
		t.Fatalf("PutSnapshot() error = %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(v.snapshotsDir, "h"))
	if err != nil {
		t.Fatalf("failed to read host dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", entry.Name())
		}
	}
	if len(entries) != 2 {
		t.Errorf("host dir has %d entries, want 2 (data + version)", len(entries))
	}
}
