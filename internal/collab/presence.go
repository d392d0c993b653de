package collab

import (
	"context"

	"github.com/cwrk-planet/collab-service/internal/domain"
)

// Join регистрирует участника в комнате. Повторный join того же id —
// reload/reconnect: запись заменяется, joined_at сохраняется.
func (c *Core) Join(roomID string, p domain.Participant) domain.Participant {
	now := c.now()
	r := c.room(roomID)

	r.mu.Lock()
	// между room() и захватом мьютекса комнату мог убрать reapIfEmpty;
	// в осиротевшее состояние не пишем — берём свежее
	for r.gone {
		r.mu.Unlock()
		r = c.room(roomID)
		r.mu.Lock()
	}
	if prev, ok := r.participants[p.ID]; ok {
		p.JoinedAt = prev.JoinedAt
	} else {
		p.JoinedAt = now
	}
	p.LastSeen = now
	cp := p
	r.participants[p.ID] = &cp
	list := r.participantList()
	r.mu.Unlock()

	c.mirrorDo("add", func(ctx context.Context) error {
		return c.mirror.AddMember(ctx, roomID, p, c.policy.HeartbeatTimeout)
	})
	c.publish(roomID,
		ParticipantJoined{Participant: p},
		ParticipantList{Participants: list},
	)
	return p
}

// Leave убирает участника и снимает все его аренды. Отсутствующий id —
// no-op, как и неизвестная комната.
func (c *Core) Leave(roomID, participantID string) {
	r := c.peek(roomID)
	if r == nil {
		return
	}

	r.mu.Lock()
	if _, ok := r.participants[participantID]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.participants, participantID)
	evs := r.releaseHeldLocks(participantID, ReleaseReasonReleased)
	evs = append(evs,
		ParticipantLeft{ParticipantID: participantID, Reason: LeaveReasonLeft},
		ParticipantList{Participants: r.participantList()},
	)
	r.mu.Unlock()

	c.mirrorDo("remove", func(ctx context.Context) error {
		return c.mirror.RemoveMember(ctx, roomID, participantID)
	})
	c.publish(roomID, evs...)
	c.reapIfEmpty(roomID)
}

// Heartbeat обновляет last_seen. Для неизвестной комнаты или участника
// возвращает ErrNotInRoom — сигнал клиенту пересинхронизироваться.
func (c *Core) Heartbeat(roomID, participantID string) error {
	r := c.peek(roomID)
	if r == nil {
		return domain.ErrNotInRoom
	}
	now := c.now()

	r.mu.Lock()
	p, ok := r.participants[participantID]
	if !ok {
		r.mu.Unlock()
		return domain.ErrNotInRoom
	}
	p.LastSeen = now
	r.mu.Unlock()

	c.mirrorDo("touch", func(ctx context.Context) error {
		return c.mirror.TouchMember(ctx, roomID, participantID, c.policy.HeartbeatTimeout)
	})
	return nil
}

// Participants — упорядоченный снапшот присутствия (пустая комната — nil).
func (c *Core) Participants(roomID string) []domain.Participant {
	r := c.peek(roomID)
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.participantList()
}
