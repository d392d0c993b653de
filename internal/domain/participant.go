package domain

import "time"

// Participant — активное присутствие одного пользователя в комнате.
// ID стабилен для пользователя (выдаёт identity-сервис), не для сокета:
// переподключение заменяет запись, а не дублирует её.
type Participant struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Department  string    `json:"department,omitempty"`
	JoinedAt    time.Time `json:"joined_at"`
	LastSeen    time.Time `json:"last_seen"`
}
