//go:build unix

package uiloop

import (
	"os"
	"os/signal"
	"syscall"
)

// WatchReloadSignal arranges for SIGHUP to call Signals.Raise,
// equivalent to cairoui_main's `signal(SIGHUP, handler)` installing a
// handler that sets sig_reload. Returns a function that stops watching.
func (rt *Runtime) WatchReloadSignal() (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGHUP)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ch:
				rt.Signals.Raise()
			case <-done:
				signal.Stop(ch)
				return
			}
		}
	}()
	return func() { close(done) }
}
