package ws

// Входящие типы сообщений (от клиента).
const (
	TypeJoin           = "join"
	TypeLeave          = "leave"
	TypeHeartbeat      = "heartbeat"
	TypeLockAcquire    = "lock:acquire"
	TypeLockRenew      = "lock:renew"
	TypeLockRelease    = "lock:release"
	TypePreviewPublish = "preview:publish"
	TypeSessionRestore = "session:restore"
)

// Исходящие типы (broadcast комнате либо прямой ответ).
const (
	TypePresenceList     = "presence:list"
	TypePresenceJoined   = "presence:joined"
	TypePresenceLeft     = "presence:left"
	TypeLockGranted      = "lock:granted"
	TypeLockDenied       = "lock:denied"
	TypeLockReleased     = "lock:released"
	TypePreviewPatch     = "preview:patch"
	TypePreviewCleared   = "preview:cleared"
	TypeConflictDetected = "conflict:detected"
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// --- входящие payload'ы ---

type JoinPayload struct {
	DisplayName string `json:"display_name"`
	Department  string `json:"department,omitempty"`
}

type FieldPayload struct {
	FieldID string            `json:"field_id"`
	Meta    map[string]string `json:"meta,omitempty"` // координаты для подсветки
}

type PreviewPublishPayload struct {
	FieldID string `json:"field_id"`
	Content string `json:"content"`
}

type RestorePayload struct {
	DisplayName string `json:"display_name"`
	Department  string `json:"department,omitempty"`
	// LastFieldID — advisory claim клиента "я держал это поле".
	LastFieldID string `json:"last_field_id,omitempty"`
}

// --- исходящие payload'ы ---

type ParticipantItem struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Department  string `json:"department,omitempty"`
	JoinedAt    int64  `json:"joined_at_unix"`
	LastSeen    int64  `json:"last_seen_unix"`
}

type PresenceListPayload struct {
	RoomID       string            `json:"room_id"`
	Participants []ParticipantItem `json:"participants"`
}

type PresenceJoinedPayload struct {
	RoomID      string          `json:"room_id"`
	Participant ParticipantItem `json:"participant"`
}

type PresenceLeftPayload struct {
	RoomID        string `json:"room_id"`
	ParticipantID string `json:"participant_id"`
	Reason        string `json:"reason"`
}

type LockGrantedPayload struct {
	FieldID    string            `json:"field_id"`
	HolderID   string            `json:"holder_id"`
	AcquiredAt int64             `json:"acquired_at_unix"`
	ExpiresAt  int64             `json:"expires_at_unix"`
	Meta       map[string]string `json:"meta,omitempty"`
}

type LockDeniedPayload struct {
	FieldID     string `json:"field_id"`
	HolderID    string `json:"holder_id,omitempty"`
	RequesterID string `json:"requester_id"`
}

type LockReleasedPayload struct {
	FieldID  string `json:"field_id"`
	HolderID string `json:"holder_id,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type PreviewPatchPayload struct {
	FieldID   string `json:"field_id"`
	HolderID  string `json:"holder_id"`
	Content   string `json:"content"`
	EmittedAt int64  `json:"emitted_at_unix"`
}

type PreviewClearedPayload struct {
	FieldID string `json:"field_id"`
}

type ConflictPayload struct {
	FieldID       string `json:"field_id"`
	StaleHolderID string `json:"stale_holder_id"`
	NewVersion    int64  `json:"new_version"`
}
