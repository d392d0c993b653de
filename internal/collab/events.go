package collab

import "github.com/cwrk-planet/collab-service/internal/domain"

// Event — закрытый набор событий комнаты, по одному варианту на
// исходящее сообщение протокола. Транспорт получает их через Sink.
type Event interface{ isEvent() }

// Sink — получатель событий комнаты. Вызывается вне критической секции
// комнаты и обязан быть fire-and-forget: медленный получатель не должен
// тормозить ядро.
type Sink interface {
	Publish(roomID string, events ...Event)
}

type LeaveReason string

const (
	LeaveReasonLeft    LeaveReason = "left"    // явный leave
	LeaveReasonTimeout LeaveReason = "timeout" // пропавший heartbeat
)

type ReleaseReason string

const (
	ReleaseReasonReleased   ReleaseReason = "released"
	ReleaseReasonExpired    ReleaseReason = "expired"
	ReleaseReasonDisconnect ReleaseReason = "disconnect"
)

type ParticipantJoined struct {
	Participant domain.Participant
}

type ParticipantLeft struct {
	ParticipantID string
	Reason        LeaveReason
}

type ParticipantList struct {
	Participants []domain.Participant
}

type LockGranted struct {
	Lock domain.FieldLock
}

type LockDenied struct {
	FieldID     string
	HolderID    string
	RequesterID string
}

type LockReleased struct {
	FieldID  string
	HolderID string
	Reason   ReleaseReason
}

type PreviewUpdated struct {
	Patch domain.PreviewPatch
}

type PreviewCleared struct {
	FieldID string
}

type CommitConflict struct {
	FieldID       string
	StaleHolderID string
	NewVersion    int64
}

func (ParticipantJoined) isEvent() {}
func (ParticipantLeft) isEvent()   {}
func (ParticipantList) isEvent()   {}
func (LockGranted) isEvent()       {}
func (LockDenied) isEvent()        {}
func (LockReleased) isEvent()      {}
func (PreviewUpdated) isEvent()    {}
func (PreviewCleared) isEvent()    {}
func (CommitConflict) isEvent()    {}
