package testutil

import (
	"sync"
)

// MockBinding implements desktop.Binding for testing.
type MockBinding struct {
	mu         sync.Mutex
	Commits    []string
	CommitErr  error
	RefreshErr error
	Refreshes  int
	// FailNext makes the next n commits fail with CommitErr, after
	// which commits succeed again. Zero with a non-nil CommitErr fails
	// every commit.
	FailNext int
}

func (m *MockBinding) CommitBackground(imagePath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.CommitErr; err != nil {
		if m.FailNext > 0 {
			m.FailNext--
			if m.FailNext == 0 {
				m.CommitErr = nil
			}
		}
		return err
	}
	m.Commits = append(m.Commits, imagePath)
	return nil
}

func (m *MockBinding) NotifyShellRefresh() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Refreshes++
	return m.RefreshErr
}

// SetCommitErr updates the commit error in a thread-safe manner.
func (m *MockBinding) SetCommitErr(err error, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CommitErr = err
	m.FailNext = n
}

// GetCommits returns a copy of the committed paths in a thread-safe manner.
func (m *MockBinding) GetCommits() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Commits...)
}

// GetRefreshes returns the number of refresh calls in a thread-safe manner.
func (m *MockBinding) GetRefreshes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Refreshes
}
