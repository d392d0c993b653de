package collab

import "github.com/cwrk-planet/collab-service/internal/domain"

// RestoreSession — best-effort восстановление после обрыва соединения:
// повторный join (замена старой записи) и попытка вернуть последнюю
// аренду клиента. Claim клиента advisory — идём через обычный acquire
// по авторитетному состоянию, а не доверяем ему. Если поле за время
// обрыва занял другой участник, исходный держатель получает denied и
// аренду не возвращает. Уже снятое или несуществующее поле — не ошибка.
func (c *Core) RestoreSession(roomID string, p domain.Participant, lastFieldID string) (*domain.FieldLock, error) {
	c.Join(roomID, p)
	if lastFieldID == "" {
		return nil, nil
	}
	lock, err := c.AcquireLock(roomID, lastFieldID, p.ID, nil)
	if err != nil {
		return nil, err
	}
	return &lock, nil
}
