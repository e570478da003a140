// Package procwatch polls a spawned upstream child process for unexpected
// exit and reports it once through a callback, so a dead stdio upstream
// does not leave future requests to it silently hanging; bootstrap's
// callback cancels the gateway-wide shutdown token.
package procwatch

import (
	"context"
	"os"
	"time"
)

var pollInterval = 2 * time.Second

// Watch polls proc's liveness until ctx is done or proc exits on its own,
// in which case onExit is invoked exactly once. Watch itself returns
// immediately; the polling runs in its own goroutine.
func Watch(ctx context.Context, proc *os.Process, onExit func()) {
	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !processIsAlive(proc) {
					onExit()
					return
				}
			}
		}
	}()
}
