package postgres

import (
	"context"
	"errors"

	"github.com/cwrk-planet/collab-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RecordStore — persistence-коллаборатор: значения полей с монотонной
// версией. Ядро координации сюда не пишет, commit зовёт обвязка.
type RecordStore struct {
	db *pgxpool.Pool
}

func NewRecordStore(db *pgxpool.Pool) *RecordStore {
	return &RecordStore{db: db}
}

// Commit — compare-and-set по версии, защищён от гонок так же, как
// join по лимиту мест: блокируем строку записи, параллельные commit
// по тому же полю ждут. При несовпадении версии возвращает
// ConflictError с текущей версией; запись не применяется.
func (r *RecordStore) Commit(ctx context.Context, roomID, fieldID, content string, expectedVersion int64) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var cur int64
	err = tx.QueryRow(ctx,
		`SELECT version FROM field_records WHERE room_id=$1 AND field_id=$2 FOR UPDATE`,
		roomID, fieldID).Scan(&cur)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// первое значение поля: ожидаемая версия обязана быть 0
		if expectedVersion != 0 {
			return 0, &domain.ConflictError{FieldID: fieldID, CurrentVersion: 0}
		}
		var newVersion int64
		if err := tx.QueryRow(ctx, `
			INSERT INTO field_records (room_id, field_id, content, version, updated_at)
			VALUES ($1, $2, $3, 1, now())
			RETURNING version
		`, roomID, fieldID, content).Scan(&newVersion); err != nil {
			return 0, err
		}
		if err := tx.Commit(ctx); err != nil {
			return 0, err
		}
		return newVersion, nil
	case err != nil:
		return 0, err
	}

	if cur != expectedVersion {
		return 0, &domain.ConflictError{FieldID: fieldID, CurrentVersion: cur}
	}

	var newVersion int64
	if err := tx.QueryRow(ctx, `
		UPDATE field_records
		SET content=$3, version=version+1, updated_at=now()
		WHERE room_id=$1 AND field_id=$2
		RETURNING version
	`, roomID, fieldID, content).Scan(&newVersion); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return newVersion, nil
}

func (r *RecordStore) Get(ctx context.Context, roomID, fieldID string) (*domain.FieldRecord, error) {
	var rec domain.FieldRecord
	err := r.db.QueryRow(ctx,
		`SELECT room_id, field_id, content, version, updated_at
		 FROM field_records WHERE room_id=$1 AND field_id=$2`,
		roomID, fieldID).
		Scan(&rec.RoomID, &rec.FieldID, &rec.Content, &rec.Version, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RecordStore) ListByRoom(ctx context.Context, roomID string) ([]domain.FieldRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT room_id, field_id, content, version, updated_at
		 FROM field_records WHERE room_id=$1 ORDER BY field_id ASC`,
		roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.FieldRecord
	for rows.Next() {
		var rec domain.FieldRecord
		if err := rows.Scan(&rec.RoomID, &rec.FieldID, &rec.Content, &rec.Version, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}
