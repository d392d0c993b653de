package domain

import "time"

// PreviewPatch — эфемерный "live typing" снапшот содержимого поля.
// Не персистентен: храним только последний патч на поле, предыдущие
// затираются. Живёт вместе с FieldLock, на котором едет.
type PreviewPatch struct {
	FieldID   string    `json:"field_id"`
	HolderID  string    `json:"holder_id"`
	Content   string    `json:"content"`
	EmittedAt time.Time `json:"emitted_at"`
}
