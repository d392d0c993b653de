package domain

import "time"

// FieldRecord — персистентное значение поля с монотонной версией.
// Версией владеет хранилище; ядро координации её только сравнивает.
type FieldRecord struct {
	RoomID    string    `db:"room_id" json:"room_id"`
	FieldID   string    `db:"field_id" json:"field_id"`
	Content   string    `db:"content" json:"content"`
	Version   int64     `db:"version" json:"version"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
