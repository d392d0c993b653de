package collab

import "github.com/cwrk-planet/collab-service/internal/domain"

// PublishPreview принимает эфемерный патч от держателя аренды поля.
// Не-держатель получает ErrNotHolder, его патч не рассылается. Храним
// только последний патч на поле: last write wins, без буферизации.
func (c *Core) PublishPreview(roomID, fieldID, participantID, content string) (domain.PreviewPatch, error) {
	r := c.peek(roomID)
	if r == nil {
		return domain.PreviewPatch{}, domain.ErrNotHolder
	}
	now := c.now()

	r.mu.Lock()
	cur, ok := r.locks[fieldID]
	if !ok || cur.HolderID != participantID {
		r.mu.Unlock()
		return domain.PreviewPatch{}, domain.ErrNotHolder
	}
	if !cur.Live(now) {
		evs := r.dropLock(cur, ReleaseReasonExpired)
		r.mu.Unlock()
		c.publish(roomID, evs...)
		return domain.PreviewPatch{}, domain.ErrNotHolder
	}
	patch := domain.PreviewPatch{
		FieldID:   fieldID,
		HolderID:  participantID,
		Content:   content,
		EmittedAt: now,
	}
	r.previews[fieldID] = &patch
	r.mu.Unlock()

	c.publish(roomID, PreviewUpdated{Patch: patch})
	return patch, nil
}

// Preview — последний патч поля, если он есть.
func (c *Core) Preview(roomID, fieldID string) (domain.PreviewPatch, bool) {
	r := c.peek(roomID)
	if r == nil {
		return domain.PreviewPatch{}, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.previews[fieldID]
	if !ok {
		return domain.PreviewPatch{}, false
	}
	return *p, true
}
