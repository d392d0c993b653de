package collab

import (
	"context"
	"log/slog"
	"time"
)

// Sweep — одна итерация фоновой уборки: implicit leave молчащих
// участников (с освобождением их аренд и preview) и снятие просроченных
// аренд. Идемпотентна: повторный прогон над тем же состоянием ничего не
// делает, события не дублируются.
func (c *Core) Sweep() {
	now := c.now()

	c.mu.RLock()
	ids := make([]string, 0, len(c.rooms))
	for id := range c.rooms {
		ids = append(ids, id)
	}
	c.mu.RUnlock()

	for _, id := range ids {
		c.sweepRoom(id, now)
	}
}

func (c *Core) sweepRoom(roomID string, now time.Time) {
	r := c.peek(roomID)
	if r == nil {
		return
	}

	r.mu.Lock()
	var evs []Event
	var timedOut []string
	for pid, p := range r.participants {
		if now.Sub(p.LastSeen) > c.policy.HeartbeatTimeout {
			timedOut = append(timedOut, pid)
		}
	}
	for _, pid := range timedOut {
		delete(r.participants, pid)
		evs = append(evs, r.releaseHeldLocks(pid, ReleaseReasonDisconnect)...)
		evs = append(evs, ParticipantLeft{ParticipantID: pid, Reason: LeaveReasonTimeout})
	}
	if len(timedOut) > 0 {
		evs = append(evs, ParticipantList{Participants: r.participantList()})
	}
	for _, l := range r.locks {
		if !l.Live(now) {
			evs = append(evs, r.dropLock(l, ReleaseReasonExpired)...)
		}
	}
	r.mu.Unlock()

	for _, pid := range timedOut {
		pid := pid
		c.mirrorDo("remove", func(ctx context.Context) error {
			return c.mirror.RemoveMember(ctx, roomID, pid)
		})
	}
	if len(evs) > 0 {
		slog.Debug("sweep", "room", roomID, "evicted", len(timedOut), "events", len(evs))
	}
	c.publish(roomID, evs...)
	c.reapIfEmpty(roomID)
}

// Sweeper гоняет Core.Sweep по фиксированному интервалу.
type Sweeper struct {
	core     *Core
	interval time.Duration
}

func NewSweeper(core *Core, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = core.Policy().SweepInterval
	}
	return &Sweeper{core: core, interval: interval}
}

func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.core.Sweep()
		}
	}
}
