// Package instance guards against more than one animback driving the
// desktop at a time.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrRunning is returned by Acquire when another process holds the lock.
var ErrRunning = errors.New("animback is already running")

// Lock is a held instance lock.
type Lock struct {
	fl   *flock.Flock
	path string
}

// Dir returns the runtime directory holding the pid file.
func Dir() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "animback")
}

// Acquire takes the pid lock in dir, creating dir if necessary, and
// records the current pid.
func Acquire(dir string) (*Lock, error) {
	err := os.MkdirAll(dir, 0o700)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "pid")
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRunning
	}
	pid := fmt.Sprintln(os.Getpid())
	err = os.WriteFile(path, []byte(pid), 0o600)
	if err != nil {
		fl.Unlock()
		return nil, err
	}
	return &Lock{fl: fl, path: path}, nil
}

// Path returns the pid file path.
func (l *Lock) Path() string {
	return l.path
}

// Release drops the lock and removes the pid file.
func (l *Lock) Release() error {
	err := l.fl.Unlock()
	os.Remove(l.path)
	return err
}
