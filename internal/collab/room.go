package collab

import (
	"sort"
	"sync"

	"github.com/cwrk-planet/collab-service/internal/domain"
)

// roomState — всё изменяемое состояние одной комнаты. Любая мутация —
// только под mu; события копятся под мьютексом, публикуются после.
type roomState struct {
	mu           sync.Mutex
	gone         bool // выставляет reapIfEmpty; убранное состояние не мутируем
	participants map[string]*domain.Participant
	locks        map[string]*domain.FieldLock   // fieldID -> аренда
	previews     map[string]*domain.PreviewPatch // fieldID -> последний патч
}

func newRoomState() *roomState {
	return &roomState{
		participants: make(map[string]*domain.Participant),
		locks:        make(map[string]*domain.FieldLock),
		previews:     make(map[string]*domain.PreviewPatch),
	}
}

// participantList — снапшот участников, отсортированный по joined_at.
// Вызывать под mu.
func (r *roomState) participantList() []domain.Participant {
	out := make([]domain.Participant, 0, len(r.participants))
	for _, p := range r.participants {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// dropLock снимает аренду и её preview, возвращая события для рассылки.
// Вызывать под mu.
func (r *roomState) dropLock(l *domain.FieldLock, reason ReleaseReason) []Event {
	delete(r.locks, l.FieldID)
	evs := []Event{LockReleased{FieldID: l.FieldID, HolderID: l.HolderID, Reason: reason}}
	if _, ok := r.previews[l.FieldID]; ok {
		delete(r.previews, l.FieldID)
		evs = append(evs, PreviewCleared{FieldID: l.FieldID})
	}
	return evs
}

// releaseHeldLocks снимает все аренды участника (leave/disconnect).
// Вызывать под mu.
func (r *roomState) releaseHeldLocks(participantID string, reason ReleaseReason) []Event {
	var evs []Event
	for _, l := range r.locks {
		if l.HolderID == participantID {
			evs = append(evs, r.dropLock(l, reason)...)
		}
	}
	return evs
}
