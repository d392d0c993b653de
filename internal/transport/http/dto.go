package http

import "time"

type ParticipantItem struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Department  string    `json:"department,omitempty"`
	JoinedAt    time.Time `json:"joined_at"`
	LastSeen    time.Time `json:"last_seen"`
}

type LockItem struct {
	FieldID    string            `json:"field_id"`
	HolderID   string            `json:"holder_id"`
	AcquiredAt time.Time         `json:"acquired_at"`
	ExpiresAt  time.Time         `json:"expires_at"`
	Meta       map[string]string `json:"meta,omitempty"`
}

type RecordItem struct {
	FieldID   string    `json:"field_id"`
	Content   string    `json:"content"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PreviewItem struct {
	FieldID   string    `json:"field_id"`
	HolderID  string    `json:"holder_id"`
	Content   string    `json:"content"`
	EmittedAt time.Time `json:"emitted_at"`
}

type CommitRequest struct {
	Content         string `json:"content"`
	ExpectedVersion int64  `json:"expected_version"`
}

type CommitResponse struct {
	Version int64 `json:"version"`
}
