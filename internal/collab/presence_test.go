package collab

import (
	"sync"
	"testing"
	"time"

	"github.com/cwrk-planet/collab-service/internal/domain"
)

func TestJoinReplacesExistingParticipant(t *testing.T) {
	core, _, clock := newTestCore(t)

	first := join(t, core, "r1", "u1", "Аня")
	clock.Advance(5 * time.Second)
	second := join(t, core, "r1", "u1", "Anya")

	parts := core.Participants("r1")
	if len(parts) != 1 {
		t.Fatalf("expected 1 participant after rejoin, got %d", len(parts))
	}
	if parts[0].DisplayName != "Anya" {
		t.Fatalf("rejoin must update display name, got %q", parts[0].DisplayName)
	}
	if !second.JoinedAt.Equal(first.JoinedAt) {
		t.Fatalf("rejoin must keep joined_at: %v != %v", second.JoinedAt, first.JoinedAt)
	}
	if !second.LastSeen.After(first.LastSeen) {
		t.Fatalf("rejoin must refresh last_seen")
	}
}

func TestParticipantsOrderedByJoinTime(t *testing.T) {
	core, _, clock := newTestCore(t)

	join(t, core, "r1", "b", "B")
	clock.Advance(time.Second)
	join(t, core, "r1", "a", "A")
	clock.Advance(time.Second)
	join(t, core, "r1", "c", "C")

	parts := core.Participants("r1")
	got := []string{parts[0].ID, parts[1].ID, parts[2].ID}
	want := []string{"b", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch: got %v, want %v", got, want)
		}
	}
}

func TestJoinEmitsPresenceEvents(t *testing.T) {
	core, sink, _ := newTestCore(t)

	join(t, core, "r1", "u1", "A")

	evs := sink.all()
	if len(evs) != 2 {
		t.Fatalf("expected joined+list, got %d events", len(evs))
	}
	if _, ok := evs[0].event.(ParticipantJoined); !ok {
		t.Fatalf("first event must be ParticipantJoined, got %T", evs[0].event)
	}
	list, ok := evs[1].event.(ParticipantList)
	if !ok {
		t.Fatalf("second event must be ParticipantList, got %T", evs[1].event)
	}
	if len(list.Participants) != 1 || list.Participants[0].ID != "u1" {
		t.Fatalf("unexpected list payload: %+v", list.Participants)
	}
}

func TestLeaveUnknownParticipantIsNoop(t *testing.T) {
	core, sink, _ := newTestCore(t)

	join(t, core, "r1", "u1", "A")
	sink.reset()

	core.Leave("r1", "ghost")
	core.Leave("no-such-room", "u1")

	if evs := sink.all(); len(evs) != 0 {
		t.Fatalf("noop leave must not emit events, got %d", len(evs))
	}
	if len(core.Participants("r1")) != 1 {
		t.Fatalf("participant must survive noop leaves")
	}
}

func TestLeaveReleasesHeldLocks(t *testing.T) {
	core, sink, _ := newTestCore(t)

	join(t, core, "r1", "u1", "A")
	if _, err := core.AcquireLock("r1", "f1", "u1", nil); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	sink.reset()

	core.Leave("r1", "u1")

	rel := sink.released()
	if len(rel) != 1 || rel[0].FieldID != "f1" {
		t.Fatalf("leave must release held lock exactly once, got %+v", rel)
	}
	if locks := core.Locks("r1"); len(locks) != 0 {
		t.Fatalf("locks must be empty after leave, got %+v", locks)
	}
}

func TestHeartbeatUnknownSessionRejected(t *testing.T) {
	core, _, _ := newTestCore(t)

	if err := core.Heartbeat("r1", "u1"); err == nil {
		t.Fatalf("heartbeat for unknown room must be rejected")
	}

	join(t, core, "r1", "u1", "A")
	if err := core.Heartbeat("r1", "u1"); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	if err := core.Heartbeat("r1", "ghost"); err == nil {
		t.Fatalf("heartbeat for unknown participant must be rejected")
	}
}

func TestRoomReapedWhenLastParticipantLeaves(t *testing.T) {
	core, _, _ := newTestCore(t)

	join(t, core, "r1", "u1", "A")
	core.Leave("r1", "u1")

	core.mu.RLock()
	_, exists := core.rooms["r1"]
	core.mu.RUnlock()
	if exists {
		t.Fatalf("empty room must be garbage-collected")
	}
}

// Join, взявший указатель состояния до того, как leave убрал комнату,
// не должен писать в осиротевшее состояние.
func TestJoinDoesNotResurrectReapedRoom(t *testing.T) {
	core, _, _ := newTestCore(t)

	join(t, core, "r1", "u1", "A")
	stale := core.peek("r1")
	core.Leave("r1", "u1")

	stale.mu.Lock()
	gone := stale.gone
	stale.mu.Unlock()
	if !gone {
		t.Fatalf("reaped room must be marked gone")
	}

	join(t, core, "r1", "u2", "B")

	if fresh := core.peek("r1"); fresh == nil || fresh == stale {
		t.Fatalf("join must land in a fresh room state")
	}
	stale.mu.Lock()
	n := len(stale.participants)
	stale.mu.Unlock()
	if n != 0 {
		t.Fatalf("orphaned state must stay empty, got %d participants", n)
	}
	parts := core.Participants("r1")
	if len(parts) != 1 || parts[0].ID != "u2" {
		t.Fatalf("joined participant missing from the registry: %+v", parts)
	}
}

// Гонка leave последнего участника с параллельным join: после возврата
// Join участник обязан быть виден в реестре.
func TestConcurrentJoinLeaveNeverLosesJoin(t *testing.T) {
	core := New(DefaultPolicy(), &recordSink{})

	for i := 0; i < 500; i++ {
		join(t, core, "r1", "u1", "A")

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			core.Leave("r1", "u1")
		}()
		go func() {
			defer wg.Done()
			core.Join("r1", domain.Participant{ID: "u2", DisplayName: "B"})
		}()
		wg.Wait()

		found := false
		for _, p := range core.Participants("r1") {
			if p.ID == "u2" {
				found = true
			}
		}
		if !found {
			t.Fatalf("iteration %d: joined participant lost", i)
		}

		core.Leave("r1", "u1")
		core.Leave("r1", "u2")
	}
}
