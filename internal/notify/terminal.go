package notify

import (
	"io"
	"os"
	"time"

	"github.com/JPM1118/animback/internal/player"
)

// Bell manages terminal bell notifications with debounce and suspension.
type Bell struct {
	debounce  time.Duration
	lastRing  time.Time
	suspended bool
	triggerOn map[player.Kind]bool
	out       io.Writer
}

// NewBell creates a Bell with the given debounce interval that rings
// for the given status kinds.
func NewBell(debounce time.Duration, kinds ...player.Kind) *Bell {
	triggerOn := make(map[player.Kind]bool, len(kinds))
	for _, k := range kinds {
		triggerOn[k] = true
	}
	return &Bell{
		debounce:  debounce,
		triggerOn: triggerOn,
		out:       os.Stderr,
	}
}

// SetOutput redirects the bell character.
func (b *Bell) SetOutput(w io.Writer) {
	b.out = w
}

// Ring attempts to ring the terminal bell for the given status.
// Returns true if the bell actually rang.
func (b *Bell) Ring(st player.Status, now time.Time) bool {
	if b.suspended {
		return false
	}
	if !b.triggerOn[st.Kind] {
		return false
	}
	if !b.lastRing.IsZero() && now.Sub(b.lastRing) < b.debounce {
		return false
	}

	io.WriteString(b.out, "\a")
	b.lastRing = now
	return true
}

// Suspend disables bell ringing.
func (b *Bell) Suspend() {
	b.suspended = true
}

// Resume re-enables bell ringing.
func (b *Bell) Resume() {
	b.suspended = false
}

// IsSuspended returns whether the bell is currently suspended.
func (b *Bell) IsSuspended() bool {
	return b.suspended
}
