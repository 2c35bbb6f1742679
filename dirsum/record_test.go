package dirsum

import (
	"errors"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func TestNewFileRecord_RequiresAbsolutePath(t *testing.T) {
	_, err := NewFileRecord("relative/path.txt")
	if err == nil {
		t.Fatal("NewFileRecord() expected error for relative path, got nil")
	}
	if !errors.Is(err, ErrNotAbsolute) {
		t.Errorf("NewFileRecord() error = %v, want ErrNotAbsolute", err)
	}
}

func TestNewFileRecord_MissingFile(t *testing.T) {
	_, err := NewFileRecord(filepath.Join(t.TempDir(), "nonexistent.txt"))
	if err == nil {
		t.Fatal("NewFileRecord() expected error for missing file, got nil")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("NewFileRecord() error = %v, want fs.ErrNotExist", err)
	}
}

func TestNewFileRecord_Directory(t *testing.T) {
	_, err := NewFileRecord(t.TempDir())
	if err == nil {
		t.Fatal("NewFileRecord() expected error for directory, got nil")
	}
	var typeErr *InvalidFileTypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("NewFileRecord() error = %v, want InvalidFileTypeError", err)
	}
	if typeErr.Kind != KindDir {
		t.Errorf("NewFileRecord() kind = %v, want %v", typeErr.Kind, KindDir)
	}
}

func TestNewFileRecord_FIFO(t *testing.T) {
	fifo := filepath.Join(t.TempDir(), "pipe")
	if err := syscall.Mkfifo(fifo, 0644); err != nil {
		t.Skipf("cannot create FIFO: %v", err)
	}

	_, err := NewFileRecord(fifo)
	var typeErr *InvalidFileTypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("NewFileRecord() error = %v, want InvalidFileTypeError", err)
	}
	if typeErr.Kind != KindFIFO {
		t.Errorf("NewFileRecord() kind = %v, want %v", typeErr.Kind, KindFIFO)
	}
	if typeErr.Path != fifo {
		t.Errorf("NewFileRecord() path = %q, want %q", typeErr.Path, fifo)
	}
}

func TestNewFileRecord_Socket(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "sock")
	l, err := net.Listen("unix", sock)
	if err != nil {
		t.Skipf("cannot create unix socket: %v", err)
	}
	defer l.Close()

	_, err = NewFileRecord(sock)
	var typeErr *InvalidFileTypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("NewFileRecord() error = %v, want InvalidFileTypeError", err)
	}
	if typeErr.Kind != KindSocket {
		t.Errorf("NewFileRecord() kind = %v, want %v", typeErr.Kind, KindSocket)
	}
}

func TestNewFileRecord_SymlinkToDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	sub := filepath.Join(tmpDir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}
	link := filepath.Join(tmpDir, "dirlink")
	if err := os.Symlink(sub, link); err != nil {
		t.Fatalf("Symlink() error = %v", err)
	}

	// The stat follows the link, so the target's type wins.
	_, err := NewFileRecord(link)
	var typeErr *InvalidFileTypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("NewFileRecord() error = %v, want InvalidFileTypeError", err)
	}
	if typeErr.Kind != KindDir {
		t.Errorf("NewFileRecord() kind = %v, want %v", typeErr.Kind, KindDir)
	}
}

func TestFileRecord_ComputeDigest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	if err := os.WriteFile(path, []byte("First line"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	rec, err := NewFileRecord(path)
	if err != nil {
		t.Fatalf("NewFileRecord() error = %v", err)
	}
	if rec.Path() != path {
		t.Errorf("Path() = %q, want %q", rec.Path(), path)
	}
	if _, ok := rec.Digest(); ok {
		t.Error("Digest() reported a digest before ComputeDigest()")
	}

	if err := rec.ComputeDigest(); err != nil {
		t.Fatalf("ComputeDigest() error = %v", err)
	}

	d, ok := rec.Digest()
	if !ok {
		t.Fatal("Digest() reported no digest after ComputeDigest()")
	}
	want := "2361df1018e7458967cc1e554069bdfb1e8ecaad33db0462806129f81ebb6a8a"
	if d.String() != want {
		t.Errorf("Digest() = %v, want %v", d, want)
	}
}

func TestFileRecord_ComputeDigestRereads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	if err := os.WriteFile(path, []byte("test data"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	rec, err := NewFileRecord(path)
	if err != nil {
		t.Fatalf("NewFileRecord() error = %v", err)
	}
	if err := rec.ComputeDigest(); err != nil {
		t.Fatalf("ComputeDigest() error = %v", err)
	}
	first, _ := rec.Digest()
	if first.String() != "916f0027a575074ce72a331777c3478d6513f786a591bd892da1a577bf2335f9" {
		t.Errorf("Digest() = %v, unexpected first digest", first)
	}

	if err := os.WriteFile(path, []byte("Here is some data"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := rec.ComputeDigest(); err != nil {
		t.Fatalf("ComputeDigest() error = %v", err)
	}
	second, _ := rec.Digest()
	if second.String() != "15f236d5f14ec9bd2647cb5dd509bf533c314aa3c7119d2d7b70466aa5005895" {
		t.Errorf("Digest() = %v, recompute did not reread the file", second)
	}
}

func TestFileRecord_ComputeDigestMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	rec, err := NewFileRecord(path)
	if err != nil {
		t.Fatalf("NewFileRecord() error = %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	err = rec.ComputeDigest()
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ComputeDigest() error = %v, want fs.ErrNotExist", err)
	}
	if _, ok := rec.Digest(); ok {
		t.Error("Digest() reported a digest after failed compute")
	}
}

func TestInvalidKindOf(t *testing.T) {
	tests := []struct {
		name     string
		mode     os.FileMode
		wantKind InvalidKind
		wantBad  bool
	}{
		{name: "regular file", mode: 0, wantBad: false},
		{name: "directory", mode: os.ModeDir, wantKind: KindDir, wantBad: true},
		{name: "block device", mode: os.ModeDevice, wantKind: KindBlockDevice, wantBad: true},
		{name: "char device", mode: os.ModeDevice | os.ModeCharDevice, wantKind: KindCharDevice, wantBad: true},
		{name: "fifo", mode: os.ModeNamedPipe, wantKind: KindFIFO, wantBad: true},
		{name: "socket", mode: os.ModeSocket, wantKind: KindSocket, wantBad: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, bad := invalidKindOf(tt.mode)
			if bad != tt.wantBad {
				t.Fatalf("invalidKindOf(%v) bad = %v, want %v", tt.mode, bad, tt.wantBad)
			}
			if bad && kind != tt.wantKind {
				t.Errorf("invalidKindOf(%v) = %v, want %v", tt.mode, kind, tt.wantKind)
			}
		})
	}
}

func TestInvalidKind_String(t *testing.T) {
	tests := []struct {
		kind InvalidKind
		want string
	}{
		{KindDir, "directory"},
		{KindBlockDevice, "block device"},
		{KindCharDevice, "character device"},
		{KindFIFO, "FIFO"},
		{KindSocket, "socket"},
		{InvalidKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("InvalidKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
