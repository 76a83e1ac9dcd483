package frames

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestScan_OrdersAndFilters(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "3.png", "1.jpg", "2.bmp", "notes.txt", "5.xyz", "abc.png")

	set, err := Scan(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		filepath.Join(dir, "1.jpg"),
		filepath.Join(dir, "2.bmp"),
		filepath.Join(dir, "3.png"),
	}
	if diff := cmp.Diff(want, set.Paths()); diff != "" {
		t.Errorf("unexpected paths (-want +got):\n%s", diff)
	}
}

func TestScan_NumericNotLexicalOrder(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "10.png", "9.png", "011.png", "100.gif")

	set, err := Scan(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var keys []int
	for _, f := range set {
		keys = append(keys, f.Key)
	}
	if diff := cmp.Diff([]int{9, 10, 11, 100}, keys); diff != "" {
		t.Errorf("unexpected keys (-want +got):\n%s", diff)
	}
}

func TestScan_DuplicateKeysStable(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "1.png", "01.png", "001.jpg")

	set, err := Scan(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Ties keep directory read order, which is sorted by filename.
	want := []string{
		filepath.Join(dir, "001.jpg"),
		filepath.Join(dir, "01.png"),
		filepath.Join(dir, "1.png"),
	}
	if diff := cmp.Diff(want, set.Paths()); diff != "" {
		t.Errorf("unexpected paths (-want +got):\n%s", diff)
	}
}

func TestScan_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "2.png")
	if err := os.Mkdir(filepath.Join(dir, "1.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	set, err := Scan(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set) != 1 || set[0].Key != 2 {
		t.Errorf("Scan() = %v, want only 2.png", set)
	}
}

func TestScan_Symlinks(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "target.dat")
	if err := os.Symlink(filepath.Join(dir, "target.dat"), filepath.Join(dir, "1.png")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "2.png")); err != nil {
		t.Fatal(err)
	}

	set, err := Scan(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set) != 1 || set[0].Key != 1 {
		t.Errorf("Scan() = %v, want only the link to a regular file", set)
	}
}

func TestScan_RelativePathResolved(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "1.png")
	t.Chdir(dir)

	set, err := Scan(".")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filepath.IsAbs(set[0].Path) {
		t.Errorf("path %q is not absolute", set[0].Path)
	}
}

func TestScan_Errors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.png")
	writeFiles(t, dir, "file.png")
	empty := filepath.Join(dir, "empty")
	if err := os.Mkdir(empty, 0o755); err != nil {
		t.Fatal(err)
	}
	junk := filepath.Join(dir, "junk")
	if err := os.Mkdir(junk, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFiles(t, junk, "readme", "1.PNG", "x1.png", ".png", "1.png.bak")

	tests := []struct {
		name string
		path string
		want error
	}{
		{"empty input", "", ErrInvalidPath},
		{"missing", filepath.Join(dir, "nope"), ErrInvalidPath},
		{"file not dir", file, ErrInvalidPath},
		{"empty dir", empty, ErrNoFramesFound},
		{"only invalid names", junk, ErrNoFramesFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Scan(tt.path)
			if !errors.Is(err, tt.want) {
				t.Errorf("Scan(%q) error = %v, want %v", tt.path, err, tt.want)
			}
			if set != nil {
				t.Errorf("Scan(%q) = %v, want nil set on error", tt.path, set)
			}
		})
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name    string
		wantKey int
		wantOK  bool
	}{
		{"1.png", 1, true},
		{"01.png", 1, true},
		{"42.jpeg", 42, true},
		{"7.tiff", 7, true},
		{"3.gif", 3, true},
		{"1.PNG", 0, false},
		{"1.webp", 0, false},
		{"png", 0, false},
		{".png", 0, false},
		{"1a.png", 0, false},
		{"-1.png", 0, false},
		{"1.2.png", 0, false},
		{"1.png.txt", 0, false},
		{"99999999999999999999999.png", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := ParseName(tt.name)
			if key != tt.wantKey || ok != tt.wantOK {
				t.Errorf("ParseName(%q) = (%d, %v), want (%d, %v)", tt.name, key, ok, tt.wantKey, tt.wantOK)
			}
		})
	}
}

func TestScan_IndependentResults(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "1.png", "2.png")

	a, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	a[0].Path = "mutated"
	if b[0].Path == "mutated" {
		t.Error("scans should not share backing storage")
	}
}
