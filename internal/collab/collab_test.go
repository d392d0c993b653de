package collab

import (
	"sync"
	"testing"
	"time"

	"github.com/cwrk-planet/collab-service/internal/domain"
)

// --- общие помощники для тестов ядра ---

type recordedEvent struct {
	roomID string
	event  Event
}

type recordSink struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (s *recordSink) Publish(roomID string, events ...Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range events {
		s.events = append(s.events, recordedEvent{roomID: roomID, event: ev})
	}
}

func (s *recordSink) all() []recordedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]recordedEvent, len(s.events))
	copy(out, s.events)
	return out
}

func (s *recordSink) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

func (s *recordSink) released() []LockReleased {
	var out []LockReleased
	for _, re := range s.all() {
		if ev, ok := re.event.(LockReleased); ok {
			out = append(out, ev)
		}
	}
	return out
}

func (s *recordSink) denied() []LockDenied {
	var out []LockDenied
	for _, re := range s.all() {
		if ev, ok := re.event.(LockDenied); ok {
			out = append(out, ev)
		}
	}
	return out
}

func (s *recordSink) cleared() []PreviewCleared {
	var out []PreviewCleared
	for _, re := range s.all() {
		if ev, ok := re.event.(PreviewCleared); ok {
			out = append(out, ev)
		}
	}
	return out
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestCore(t *testing.T) (*Core, *recordSink, *fakeClock) {
	t.Helper()
	sink := &recordSink{}
	clock := newFakeClock()
	core := New(DefaultPolicy(), sink)
	core.SetClock(clock.Now)
	return core, sink, clock
}

func join(t *testing.T, core *Core, roomID, id, name string) domain.Participant {
	t.Helper()
	return core.Join(roomID, domain.Participant{ID: id, DisplayName: name})
}
