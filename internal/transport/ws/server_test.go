package ws

import (
	"testing"

	"github.com/cwrk-planet/collab-service/internal/collab"
	"github.com/cwrk-planet/collab-service/internal/domain"
)

func newTestServer(t *testing.T) (*Server, *Hub, *collab.Core) {
	t.Helper()
	hub := NewHub()
	core := collab.New(collab.DefaultPolicy(), NewSink(hub))
	return NewServer(hub, core), hub, core
}

func TestRenewReplyReachesAllCallerConns(t *testing.T) {
	srv, hub, core := newTestServer(t)

	a1 := &fakeConn{participantID: "a", roomID: "r1"}
	a2 := &fakeConn{participantID: "a", roomID: "r1"} // второе соединение держателя
	b := &fakeConn{participantID: "b", roomID: "r1"}
	hub.Add(a1)
	hub.Add(a2)
	hub.Add(b)

	core.Join("r1", domain.Participant{ID: "a", DisplayName: "A"})
	core.Join("r1", domain.Participant{ID: "b", DisplayName: "B"})
	if _, err := core.AcquireLock("r1", "f1", "a", nil); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	a1.reset()
	a2.reset()
	b.reset()

	srv.handleMessage(a1, Message{Type: TypeLockRenew, Payload: map[string]interface{}{"field_id": "f1"}})

	for _, c := range []*fakeConn{a1, a2} {
		msgs := c.messages()
		if len(msgs) != 1 || msgs[0].Type != TypeLockGranted {
			t.Fatalf("every holder connection must get the renew reply, got %+v", msgs)
		}
	}
	if len(b.messages()) != 0 {
		t.Fatalf("renew reply must not reach other participants")
	}
}

func TestRenewByNonHolderGetsResyncReply(t *testing.T) {
	srv, hub, core := newTestServer(t)

	a := &fakeConn{participantID: "a", roomID: "r1"}
	b := &fakeConn{participantID: "b", roomID: "r1"}
	hub.Add(a)
	hub.Add(b)

	core.Join("r1", domain.Participant{ID: "a", DisplayName: "A"})
	core.Join("r1", domain.Participant{ID: "b", DisplayName: "B"})
	if _, err := core.AcquireLock("r1", "f1", "a", nil); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	a.reset()
	b.reset()

	srv.handleMessage(b, Message{Type: TypeLockRenew, Payload: map[string]interface{}{"field_id": "f1"}})

	msgs := b.messages()
	if len(msgs) != 1 || msgs[0].Type != TypeLockReleased {
		t.Fatalf("stale caller must get a released resync, got %+v", msgs)
	}
	if len(a.messages()) != 0 {
		t.Fatalf("holder must not see the failed renew")
	}
}

func TestAcquireByStrangerGetsDirectDenied(t *testing.T) {
	srv, hub, core := newTestServer(t)

	stranger := &fakeConn{participantID: "x", roomID: "r1"}
	member := &fakeConn{participantID: "a", roomID: "r1"}
	hub.Add(stranger)
	hub.Add(member)

	core.Join("r1", domain.Participant{ID: "a", DisplayName: "A"})
	member.reset()
	stranger.reset()

	srv.handleMessage(stranger, Message{Type: TypeLockAcquire, Payload: map[string]interface{}{"field_id": "f1"}})

	msgs := stranger.messages()
	if len(msgs) != 1 || msgs[0].Type != TypeLockDenied {
		t.Fatalf("non-member acquire must get a direct denied, got %+v", msgs)
	}
	if len(member.messages()) != 0 {
		t.Fatalf("room must not see the rejected acquire")
	}
}
