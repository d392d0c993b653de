package collab

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cwrk-planet/collab-service/internal/domain"
)

// PresenceMirror — необязательное зеркало присутствия (redis), чтобы
// остальные сервисы дашборда читали "кто онлайн" без похода сюда.
// Вызывается fire-and-forget; авторитетным остаётся ядро.
type PresenceMirror interface {
	AddMember(ctx context.Context, roomID string, p domain.Participant, ttl time.Duration) error
	TouchMember(ctx context.Context, roomID, participantID string, ttl time.Duration) error
	RemoveMember(ctx context.Context, roomID, participantID string) error
}

// Core — координационное ядро: арена состояний комнат.
// Карта комнат под RWMutex; всё изменяемое состояние одной комнаты
// сериализуется её собственным мьютексом, комнаты независимы.
type Core struct {
	policy Policy
	sink   Sink
	mirror PresenceMirror
	now    func() time.Time

	mu    sync.RWMutex
	rooms map[string]*roomState
}

func New(policy Policy, sink Sink) *Core {
	return &Core{
		policy: policy.withDefaults(),
		sink:   sink,
		now:    time.Now,
		rooms:  make(map[string]*roomState),
	}
}

func (c *Core) Policy() Policy { return c.policy }

func (c *Core) SetMirror(m PresenceMirror) { c.mirror = m }

// SetClock — подмена источника времени в тестах.
func (c *Core) SetClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

// room возвращает состояние комнаты, создавая её неявно (первый join).
func (c *Core) room(id string) *roomState {
	c.mu.RLock()
	r, ok := c.rooms[id]
	c.mu.RUnlock()
	if ok {
		return r
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok = c.rooms[id]; ok {
		return r
	}
	r = newRoomState()
	c.rooms[id] = r
	return r
}

// peek — состояние комнаты без создания; nil == пустая комната.
func (c *Core) peek(id string) *roomState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rooms[id]
}

// reapIfEmpty убирает комнату, когда её покинул последний участник.
// Удаляемое состояние помечается gone под его же мьютексом: join,
// успевший взять указатель до удаления, увидит метку и возьмёт свежее
// состояние вместо мутации осиротевшего.
func (c *Core) reapIfEmpty(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.rooms[id]
	if !ok {
		return
	}
	r.mu.Lock()
	empty := len(r.participants) == 0
	if empty {
		r.gone = true
	}
	r.mu.Unlock()
	if empty {
		delete(c.rooms, id)
	}
}

// publish рассылает события ПОСЛЕ выхода из критической секции комнаты.
func (c *Core) publish(roomID string, events ...Event) {
	if c.sink == nil || len(events) == 0 {
		return
	}
	c.sink.Publish(roomID, events...)
}

func (c *Core) mirrorDo(op string, fn func(ctx context.Context) error) {
	if c.mirror == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := fn(ctx); err != nil {
			slog.Debug("presence mirror update failed", "op", op, "err", err)
		}
	}()
}
