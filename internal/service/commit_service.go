package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cwrk-planet/collab-service/internal/domain"
)

type RecordStore interface {
	Commit(ctx context.Context, roomID, fieldID, content string, expectedVersion int64) (int64, error)
	Get(ctx context.Context, roomID, fieldID string) (*domain.FieldRecord, error)
	ListByRoom(ctx context.Context, roomID string) ([]domain.FieldRecord, error)
}

type ConflictNotifier interface {
	AnnounceCommit(roomID, fieldID, participantID string, knownVersion, newVersion int64, conflicted bool)
}

// CommitService — обвязка вокруг persistence-коллаборатора: прогоняет
// запись через compare-and-set хранилища и сообщает ядру результат,
// чтобы конфликт разошёлся по комнате. Разрешение конфликта (reload,
// повторное применение) — забота клиента.
type CommitService struct {
	store    RecordStore
	notifier ConflictNotifier
}

func NewCommitService(store RecordStore, notifier ConflictNotifier) *CommitService {
	return &CommitService{store: store, notifier: notifier}
}

func (s *CommitService) Commit(ctx context.Context, roomID, fieldID, participantID, content string, expectedVersion int64) (int64, error) {
	newVersion, err := s.store.Commit(ctx, roomID, fieldID, content, expectedVersion)
	if err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			s.notifier.AnnounceCommit(roomID, fieldID, participantID, expectedVersion, conflict.CurrentVersion, true)
			return 0, err
		}
		return 0, fmt.Errorf("recordStore.Commit: %w", err)
	}

	s.notifier.AnnounceCommit(roomID, fieldID, participantID, expectedVersion, newVersion, false)
	return newVersion, nil
}

func (s *CommitService) GetRecord(ctx context.Context, roomID, fieldID string) (*domain.FieldRecord, error) {
	return s.store.Get(ctx, roomID, fieldID)
}

func (s *CommitService) ListRecords(ctx context.Context, roomID string) ([]domain.FieldRecord, error) {
	return s.store.ListByRoom(ctx, roomID)
}
