package player

import (
	"fmt"
	"time"
)

// Kind classifies a Status.
type Kind int

const (
	KindIdle Kind = iota
	KindLoaded
	KindPlaying
	KindFrame
	KindStopped
	KindRate
	KindCleared
	KindRefreshed
	KindError
)

var kindNames = [...]string{
	KindIdle:      "idle",
	KindLoaded:    "loaded",
	KindPlaying:   "playing",
	KindFrame:     "frame",
	KindStopped:   "stopped",
	KindRate:      "rate",
	KindCleared:   "cleared",
	KindRefreshed: "refreshed",
	KindError:     "error",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Status describes the outcome of the last engine operation.
type Status struct {
	Kind Kind
	// Current is the 1-based frame number for KindFrame and frame
	// errors. For KindRate it holds the new frame rate.
	Current int
	// Total is the number of loaded frames.
	Total int
	Err   error
	Time  time.Time
}

// String returns the human-readable status line.
func (s Status) String() string {
	switch s.Kind {
	case KindIdle:
		return "Enter a path to a folder of frames numbered like 1.png, 2.png, 3.png"
	case KindLoaded:
		return fmt.Sprintf("Animation frames loaded (%d). Start the animation to commence.", s.Total)
	case KindPlaying:
		return "Playing animation!"
	case KindFrame:
		return fmt.Sprintf("Frame %d/%d", s.Current, s.Total)
	case KindStopped:
		return "stopped"
	case KindRate:
		return fmt.Sprintf("Speed set to %d fps", s.Current)
	case KindCleared:
		return "cleared"
	case KindRefreshed:
		return "Refreshed!"
	case KindError:
		if s.Err == nil {
			return "error"
		}
		if s.Current > 0 {
			return fmt.Sprintf("Frame %d/%d: %v", s.Current, s.Total, s.Err)
		}
		return s.Err.Error()
	default:
		return s.Kind.String()
	}
}

// Snapshot is a copy of the playback state.
type Snapshot struct {
	Playing bool
	// Cursor is the index of the next frame to commit.
	Cursor   int
	Frames   int
	FPS      int
	Interval time.Duration
}
