package collab

import "log/slog"

// AnnounceCommit вызывается после того, как хранилище приняло или
// отклонило запись. При конфликте комнате рассылается conflict:detected
// с авторитетной версией, чтобы клиенты обновились вместо тихой
// перезаписи. Ядро не мержит и не ретраит — только сообщает.
func (c *Core) AnnounceCommit(roomID, fieldID, participantID string, knownVersion, newVersion int64, conflicted bool) {
	if !conflicted {
		return
	}
	slog.Debug("commit conflict",
		"room", roomID,
		"field", fieldID,
		"participant", participantID,
		"known_version", knownVersion,
		"current_version", newVersion)
	c.publish(roomID, CommitConflict{
		FieldID:       fieldID,
		StaleHolderID: participantID,
		NewVersion:    newVersion,
	})
}
