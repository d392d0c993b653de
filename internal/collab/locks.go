package collab

import (
	"sort"

	"github.com/cwrk-planet/collab-service/internal/domain"
)

// AcquireLock выдаёт эксклюзивную аренду поля. Побеждает ровно один из
// конкурирующих вызовов — выдача сериализована мьютексом комнаты.
// Просроченная аренда на поле считается уже снятой (lazily): сначала
// рассылается её lock:released, затем выдаётся новая. Повторный acquire
// действующим держателем (restore после reload) перевыдаёт аренду,
// сохраняя исходный acquired_at.
func (c *Core) AcquireLock(roomID, fieldID, participantID string, meta map[string]string) (domain.FieldLock, error) {
	r := c.peek(roomID)
	if r == nil {
		return domain.FieldLock{}, domain.ErrNotInRoom
	}
	now := c.now()

	r.mu.Lock()
	if _, ok := r.participants[participantID]; !ok {
		r.mu.Unlock()
		return domain.FieldLock{}, domain.ErrNotInRoom
	}

	var evs []Event
	acquiredAt := now
	if cur, ok := r.locks[fieldID]; ok {
		switch {
		case !cur.Live(now):
			evs = append(evs, r.dropLock(cur, ReleaseReasonExpired)...)
		case cur.HolderID != participantID:
			holder := cur.HolderID
			r.mu.Unlock()
			c.publish(roomID, LockDenied{FieldID: fieldID, HolderID: holder, RequesterID: participantID})
			return domain.FieldLock{}, &domain.LockDeniedError{FieldID: fieldID, HolderID: holder}
		default:
			acquiredAt = cur.AcquiredAt
		}
	}

	lock := domain.FieldLock{
		FieldID:    fieldID,
		HolderID:   participantID,
		AcquiredAt: acquiredAt,
		ExpiresAt:  now.Add(c.policy.LeaseDuration),
		Meta:       meta,
	}
	r.locks[fieldID] = &lock
	evs = append(evs, LockGranted{Lock: lock})
	r.mu.Unlock()

	c.publish(roomID, evs...)
	return lock, nil
}

// RenewLock сдвигает expires_at действующей аренды, не меняя acquired_at.
// Не-держатель (или уже истёкшая аренда) получает ErrNotHolder и никогда
// не продлевает чужую аренду.
func (c *Core) RenewLock(roomID, fieldID, participantID string) (domain.FieldLock, error) {
	r := c.peek(roomID)
	if r == nil {
		return domain.FieldLock{}, domain.ErrNotHolder
	}
	now := c.now()

	r.mu.Lock()
	cur, ok := r.locks[fieldID]
	if !ok {
		r.mu.Unlock()
		return domain.FieldLock{}, domain.ErrNotHolder
	}
	if !cur.Live(now) {
		evs := r.dropLock(cur, ReleaseReasonExpired)
		r.mu.Unlock()
		c.publish(roomID, evs...)
		return domain.FieldLock{}, domain.ErrNotHolder
	}
	if cur.HolderID != participantID {
		r.mu.Unlock()
		return domain.FieldLock{}, domain.ErrNotHolder
	}
	cur.ExpiresAt = now.Add(c.policy.LeaseDuration)
	out := *cur
	r.mu.Unlock()

	return out, nil
}

// ReleaseLock снимает аренду, если её держит вызывающий. Любой другой
// случай — no-op: этот путь никогда не отбирает чужую аренду.
func (c *Core) ReleaseLock(roomID, fieldID, participantID string) {
	r := c.peek(roomID)
	if r == nil {
		return
	}

	r.mu.Lock()
	cur, ok := r.locks[fieldID]
	if !ok || cur.HolderID != participantID {
		r.mu.Unlock()
		return
	}
	evs := r.dropLock(cur, ReleaseReasonReleased)
	r.mu.Unlock()

	c.publish(roomID, evs...)
}

// Locks — снапшот живых аренд комнаты (для HTTP-срезов).
func (c *Core) Locks(roomID string) []domain.FieldLock {
	r := c.peek(roomID)
	if r == nil {
		return nil
	}
	now := c.now()

	r.mu.Lock()
	out := make([]domain.FieldLock, 0, len(r.locks))
	for _, l := range r.locks {
		if l.Live(now) {
			out = append(out, *l)
		}
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].FieldID < out[j].FieldID })
	return out
}
