package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotInRoom      = errors.New("participant not in the room")
	ErrNotHolder      = errors.New("participant is not the lock holder")
	ErrRecordNotFound = errors.New("field record not found")
)

// LockDeniedError — поле уже занято другим участником. Recoverable:
// клиент ждёт lock:released и пробует снова.
type LockDeniedError struct {
	FieldID  string
	HolderID string
}

func (e *LockDeniedError) Error() string {
	return fmt.Sprintf("field %q is locked by %q", e.FieldID, e.HolderID)
}

// ConflictError — stale write: ожидаемая версия не совпала с текущей.
// Ядро только сообщает о конфликте, разрешение — на вызывающем.
type ConflictError struct {
	FieldID        string
	CurrentVersion int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("stale version for field %q: current version is %d", e.FieldID, e.CurrentVersion)
}
