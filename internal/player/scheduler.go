package player

import (
	"sync"
	"time"
)

// Scheduler arms repeating callbacks.
type Scheduler interface {
	// Every calls f every d until the returned cancel func is called.
	// Cancel must not wait for an in-flight f to return.
	Every(d time.Duration, f func()) (cancel func())
}

// TickerScheduler is a Scheduler backed by time.Ticker.
type TickerScheduler struct{}

func (TickerScheduler) Every(d time.Duration, f func()) func() {
	ticker := time.NewTicker(d)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				f()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
