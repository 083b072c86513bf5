// Package frame turns a host's one-shot "next frame" primitive into a
// start/stop-able animation loop.
package frame

import "github.com/decker502/halabi/internal/host"

// Scheduler drives a callback once per display frame until stopped.
//
// At most one frame request is outstanding at any time, and the next request
// is only made after the callback has returned, so callbacks never overlap.
// A Scheduler built without a requester (headless host) accepts Start and
// Stop but never calls back.
type Scheduler struct {
	req host.FrameRequester
	cb  func(elapsedMs float64)

	running    bool
	hasPending bool
	pending    host.FrameID
	gen        uint64

	haveOrigin bool
	originMs   float64
}

// New creates a scheduler bound to req. req may be nil.
func New(req host.FrameRequester) *Scheduler {
	return &Scheduler{req: req}
}

// Start begins invoking cb once per frame with the milliseconds elapsed since
// the first frame of this run. Calling Start on a running scheduler only
// replaces the callback.
func (s *Scheduler) Start(cb func(elapsedMs float64)) {
	if s.req == nil || cb == nil {
		return
	}
	s.cb = cb
	if s.running {
		return
	}
	s.running = true
	s.haveOrigin = false
	s.request()
}

// Stop cancels the outstanding request. It is idempotent and may be called
// from inside the callback or on a scheduler that never started.
func (s *Scheduler) Stop() {
	s.running = false
	s.gen++
	if s.hasPending {
		s.req.CancelFrame(s.pending)
		s.hasPending = false
	}
}

// Running reports whether the loop is active.
func (s *Scheduler) Running() bool {
	return s.running
}

func (s *Scheduler) request() {
	if s.hasPending {
		return
	}
	gen := s.gen
	s.pending = s.req.RequestFrame(func(nowMs float64) {
		if gen != s.gen {
			return
		}
		s.onFrame(nowMs)
	})
	s.hasPending = true
}

func (s *Scheduler) onFrame(nowMs float64) {
	s.hasPending = false
	if !s.running {
		return
	}
	if !s.haveOrigin {
		s.originMs = nowMs
		s.haveOrigin = true
	}
	s.cb(nowMs - s.originMs)
	if s.running {
		s.request()
	}
}
