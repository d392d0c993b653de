package cache

import (
	"context"
	"time"

	"github.com/cwrk-planet/collab-service/internal/domain"

	redis "github.com/redis/go-redis/v9"
)

// RedisPresence — зеркало присутствия для остальных сервисов дашборда.
// Участник жив, пока существует его heartbeat-ключ; протухший TTL сам
// вычищает мёртвых. Авторитетное состояние остаётся в ядре, поэтому
// ошибки зеркала никого не блокируют.
type RedisPresence struct {
	rdb *redis.Client
}

func NewRedisPresence(rdb *redis.Client) *RedisPresence {
	return &RedisPresence{rdb: rdb}
}

func (p *RedisPresence) AddMember(ctx context.Context, roomID string, member domain.Participant, ttl time.Duration) error {
	pipe := p.rdb.Pipeline()
	pipe.SAdd(ctx, roomKey(roomID), member.ID)
	pipe.Set(ctx, memberKey(roomID, member.ID), "1", ttl)
	pipe.HSet(ctx, namesKey(roomID), member.ID, member.DisplayName)
	_, err := pipe.Exec(ctx)
	return err
}

func (p *RedisPresence) TouchMember(ctx context.Context, roomID, participantID string, ttl time.Duration) error {
	pipe := p.rdb.Pipeline()
	pipe.SAdd(ctx, roomKey(roomID), participantID)
	pipe.Set(ctx, memberKey(roomID, participantID), "1", ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (p *RedisPresence) RemoveMember(ctx context.Context, roomID, participantID string) error {
	pipe := p.rdb.Pipeline()
	pipe.SRem(ctx, roomKey(roomID), participantID)
	pipe.Del(ctx, memberKey(roomID, participantID))
	pipe.HDel(ctx, namesKey(roomID), participantID)
	_, err := pipe.Exec(ctx)
	return err
}
