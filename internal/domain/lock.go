package domain

import "time"

// FieldLock — эксклюзивная аренда одного редактируемого поля комнаты.
// Инвариант: на поле в любой момент живёт не более одной аренды.
type FieldLock struct {
	FieldID    string            `json:"field_id"`
	HolderID   string            `json:"holder_id"`
	AcquiredAt time.Time         `json:"acquired_at"`
	ExpiresAt  time.Time         `json:"expires_at"`
	Meta       map[string]string `json:"meta,omitempty"` // координаты/подсветка для UI
}

// Live reports whether the lease is still valid at the given instant.
func (l FieldLock) Live(now time.Time) bool {
	return now.Before(l.ExpiresAt)
}
