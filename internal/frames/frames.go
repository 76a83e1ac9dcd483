package frames

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrInvalidPath is returned when the scanned path is empty, missing
	// or not a directory.
	ErrInvalidPath = errors.New("invalid dir, maybe doesn't exist")

	// ErrNoFramesFound is returned when a directory holds no valid
	// numbered frames.
	ErrNoFramesFound = errors.New("no valid numbered frames found (1.png, 2.png, ...)")
)

// Extensions lists the accepted frame file extensions. Matching is
// case-sensitive.
var Extensions = []string{"png", "jpg", "jpeg", "bmp", "gif", "tiff"}

// Frame is a single animation frame on disk.
type Frame struct {
	// Key is the integer value of the filename stem and orders the set.
	Key int
	// Path is the absolute path of the file.
	Path string
}

// Set is an ordered sequence of frames, ascending by Key.
type Set []Frame

// Paths returns the frame paths in playback order.
func (s Set) Paths() []string {
	paths := make([]string, len(s))
	for i, f := range s {
		paths[i] = f.Path
	}
	return paths
}

// Scan reads the immediate entries of dir and returns the numbered frames
// found there, sorted by their numeric stem. Entries that are not regular
// files, have no extension, have an unsupported extension or a non-numeric
// stem are skipped.
func Scan(dir string) (Set, error) {
	if dir == "" {
		return nil, ErrInvalidPath
	}
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPath, dir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}

	var set Set
	for _, e := range entries {
		key, ok := ParseName(e.Name())
		if !ok {
			continue
		}
		path := filepath.Join(abs, e.Name())
		// Stat rather than e.Type so that symlinks to files are kept.
		fi, err := os.Stat(path)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		set = append(set, Frame{Key: key, Path: path})
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFramesFound, abs)
	}

	sort.SliceStable(set, func(i, j int) bool {
		return set[i].Key < set[j].Key
	})
	return set, nil
}

// ParseName reports whether name is a valid frame filename and returns
// its ordering key.
func ParseName(name string) (key int, ok bool) {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return 0, false
	}
	stem, ext := name[:dot], name[dot+1:]
	if !validExtension(ext) || !isDigits(stem) {
		return 0, false
	}
	key, err := strconv.Atoi(stem)
	if err != nil {
		// Out of range for int.
		return 0, false
	}
	return key, true
}

func validExtension(ext string) bool {
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
