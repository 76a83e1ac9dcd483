package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/JPM1118/animback/internal/player"
)

// Bar keeps a FIFO history of engine statuses for display.
type Bar struct {
	items    []player.Status
	maxStore int
}

// NewBar creates a notification bar with the given buffer size.
func NewBar(maxStore int) *Bar {
	if maxStore < 1 {
		maxStore = 1
	}
	return &Bar{
		items:    make([]player.Status, 0, maxStore),
		maxStore: maxStore,
	}
}

// Push adds a status, trimming oldest if at capacity. Frame statuses
// replace a preceding frame status so playback does not flood the history.
func (b *Bar) Push(st player.Status) {
	if n := len(b.items); n > 0 && st.Kind == player.KindFrame && b.items[n-1].Kind == player.KindFrame {
		b.items[n-1] = st
		return
	}
	b.items = append(b.items, st)
	if len(b.items) > b.maxStore {
		b.items = b.items[len(b.items)-b.maxStore:]
	}
}

// Latest returns the most recent status and whether there is one.
func (b *Bar) Latest() (player.Status, bool) {
	if len(b.items) == 0 {
		return player.Status{}, false
	}
	return b.items[len(b.items)-1], true
}

// Visible returns the most recent statuses (max 2).
func (b *Bar) Visible() []player.Status {
	if len(b.items) <= 2 {
		return b.items
	}
	return b.items[len(b.items)-2:]
}

// Errors returns the buffered error statuses, oldest first.
func (b *Bar) Errors() []player.Status {
	var errs []player.Status
	for _, st := range b.items {
		if st.Kind == player.KindError {
			errs = append(errs, st)
		}
	}
	return errs
}

// Reset drops the history.
func (b *Bar) Reset() {
	b.items = b.items[:0]
}

// Len returns the total number of buffered statuses.
func (b *Bar) Len() int {
	return len(b.items)
}

// Render formats the visible statuses for display within the given width.
func (b *Bar) Render(width int, now time.Time) string {
	visible := b.Visible()
	if len(visible) == 0 {
		return ""
	}

	parts := make([]string, 0, len(visible))
	for _, st := range visible {
		parts = append(parts, formatStatus(st, now))
	}
	result := strings.Join(parts, " │ ")

	runes := []rune(result)
	if len(runes) > width {
		if width > 1 {
			result = string(runes[:width-1]) + "…"
		} else if width > 0 {
			result = string(runes[:width])
		} else {
			result = ""
		}
	}

	return result
}

func formatStatus(st player.Status, now time.Time) string {
	age := now.Sub(st.Time).Truncate(time.Second)
	if age < 0 {
		age = 0
	}
	var ageStr string
	if age < time.Minute {
		ageStr = fmt.Sprintf("%ds ago", int(age.Seconds()))
	} else if age < time.Hour {
		ageStr = fmt.Sprintf("%dm ago", int(age.Minutes()))
	} else {
		ageStr = fmt.Sprintf("%dh ago", int(age.Hours()))
	}

	marker := "●"
	if st.Kind == player.KindError {
		marker = "✗"
	}
	return fmt.Sprintf("%s %s (%s)", marker, st, ageStr)
}
