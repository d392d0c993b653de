package ws

import (
	"github.com/cwrk-planet/collab-service/internal/collab"
	"github.com/cwrk-planet/collab-service/internal/domain"
)

// Sink транслирует события ядра в сообщения протокола и раздаёт их
// комнате через хаб. Рассылка best-effort: медленный или отвалившийся
// клиент не тормозит ядро.
type Sink struct {
	hub *Hub
}

func NewSink(hub *Hub) *Sink {
	return &Sink{hub: hub}
}

func (s *Sink) Publish(roomID string, events ...collab.Event) {
	for _, ev := range events {
		msg := toMessage(roomID, ev)
		if msg.Type == "" {
			continue
		}
		// патч уходит остальным участникам, держателю своё эхо не нужно
		if pu, ok := ev.(collab.PreviewUpdated); ok {
			s.hub.BroadcastExcept(roomID, pu.Patch.HolderID, msg)
			continue
		}
		s.hub.Broadcast(roomID, msg)
	}
}

func toMessage(roomID string, ev collab.Event) Message {
	switch e := ev.(type) {
	case collab.ParticipantJoined:
		return Message{Type: TypePresenceJoined, Payload: PresenceJoinedPayload{
			RoomID:      roomID,
			Participant: participantItem(e.Participant),
		}}
	case collab.ParticipantLeft:
		return Message{Type: TypePresenceLeft, Payload: PresenceLeftPayload{
			RoomID:        roomID,
			ParticipantID: e.ParticipantID,
			Reason:        string(e.Reason),
		}}
	case collab.ParticipantList:
		items := make([]ParticipantItem, 0, len(e.Participants))
		for _, p := range e.Participants {
			items = append(items, participantItem(p))
		}
		return Message{Type: TypePresenceList, Payload: PresenceListPayload{
			RoomID:       roomID,
			Participants: items,
		}}
	case collab.LockGranted:
		return Message{Type: TypeLockGranted, Payload: lockGrantedPayload(e.Lock)}
	case collab.LockDenied:
		return Message{Type: TypeLockDenied, Payload: LockDeniedPayload{
			FieldID:     e.FieldID,
			HolderID:    e.HolderID,
			RequesterID: e.RequesterID,
		}}
	case collab.LockReleased:
		return Message{Type: TypeLockReleased, Payload: LockReleasedPayload{
			FieldID:  e.FieldID,
			HolderID: e.HolderID,
			Reason:   string(e.Reason),
		}}
	case collab.PreviewUpdated:
		return Message{Type: TypePreviewPatch, Payload: PreviewPatchPayload{
			FieldID:   e.Patch.FieldID,
			HolderID:  e.Patch.HolderID,
			Content:   e.Patch.Content,
			EmittedAt: e.Patch.EmittedAt.Unix(),
		}}
	case collab.PreviewCleared:
		return Message{Type: TypePreviewCleared, Payload: PreviewClearedPayload{FieldID: e.FieldID}}
	case collab.CommitConflict:
		return Message{Type: TypeConflictDetected, Payload: ConflictPayload{
			FieldID:       e.FieldID,
			StaleHolderID: e.StaleHolderID,
			NewVersion:    e.NewVersion,
		}}
	default:
		// закрытый набор: сюда попадать нечему
		return Message{}
	}
}

func participantItem(p domain.Participant) ParticipantItem {
	return ParticipantItem{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Department:  p.Department,
		JoinedAt:    p.JoinedAt.Unix(),
		LastSeen:    p.LastSeen.Unix(),
	}
}

func lockGrantedPayload(l domain.FieldLock) LockGrantedPayload {
	return LockGrantedPayload{
		FieldID:    l.FieldID,
		HolderID:   l.HolderID,
		AcquiredAt: l.AcquiredAt.Unix(),
		ExpiresAt:  l.ExpiresAt.Unix(),
		Meta:       l.Meta,
	}
}
