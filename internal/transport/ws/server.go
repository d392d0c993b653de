package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/cwrk-planet/collab-service/internal/collab"
	"github.com/cwrk-planet/collab-service/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type Server struct {
	upgrader websocket.Upgrader
	hub      *Hub
	core     *collab.Core

	pingEvery time.Duration
}

func NewServer(hub *Hub, core *collab.Core) *Server {
	return &Server{
		hub:  hub,
		core: core,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery: 15 * time.Second,
	}
}

// WS endpoint: GET /ws/rooms/{id}?access_token=...&user_id=...&display_name=...&department=...
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	accessToken := strings.TrimSpace(q.Get("access_token"))
	userID := strings.TrimSpace(q.Get("user_id"))
	if accessToken == "" {
		http.Error(w, "missing access_token", http.StatusUnauthorized)
		return
	}
	if userID == "" {
		http.Error(w, "missing user_id", http.StatusUnauthorized)
		return
	}
	roomID := chi.URLParam(r, "id")
	if roomID == "" {
		http.Error(w, "missing room id", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		http.Error(w, "upgrade failed", http.StatusBadRequest)
		return
	}

	c := newWsConn(conn, roomID, userID)
	s.hub.Add(c)

	// подключение == join; повторный join того же user_id заменяет
	// старую запись (reload)
	s.core.Join(roomID, domain.Participant{
		ID:          userID,
		DisplayName: strings.TrimSpace(q.Get("display_name")),
		Department:  strings.TrimSpace(q.Get("department")),
	})

	go s.writeLoop(c)
	s.readLoop(c)

	// Обрыв сокета НЕ делает немедленный leave: запись участника и его
	// аренды живут до heartbeat timeout, чтобы session:restore успел
	// вернуть состояние. Мёртвых добирает фоновый sweep.
	s.hub.Remove(c)
	if err := c.Close(); err != nil {
		slog.Debug("ws close failed", "room", roomID, "user", userID, "err", err)
	}
}

func (s *Server) readLoop(c *wsConn) {
	defer func() { _ = c.Close() }()

	_ = s.core.Heartbeat(c.roomID, c.userID)

	c.conn.SetReadLimit(1 << 20)
	c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
		_ = s.core.Heartbeat(c.roomID, c.userID)
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		s.handleMessage(c, msg)
	}
}

// handleMessage изолирует сбой одной операции: паника логируется и не
// валит ни read loop, ни состояние комнаты для остальных. Прямые ответы
// идут через hub.SendTo: их получают все соединения участника.
func (s *Server) handleMessage(c Conn, msg Message) {
	roomID, userID := c.RoomID(), c.ParticipantID()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("ws message panic",
				"room", roomID,
				"user", userID,
				"type", msg.Type,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()

	switch msg.Type {
	case TypeJoin:
		var p JoinPayload
		if decode(msg.Payload, &p) != nil {
			return
		}
		s.core.Join(roomID, domain.Participant{
			ID:          userID,
			DisplayName: p.DisplayName,
			Department:  p.Department,
		})

	case TypeLeave:
		s.core.Leave(roomID, userID)

	case TypeHeartbeat:
		_ = s.core.Heartbeat(roomID, userID)

	case TypeLockAcquire:
		var p FieldPayload
		if decode(msg.Payload, &p) != nil || p.FieldID == "" {
			return
		}
		if _, err := s.core.AcquireLock(roomID, p.FieldID, userID, p.Meta); err != nil {
			// denied с держателем ядро уже разослало; stale-сессии
			// отвечаем напрямую
			if errors.Is(err, domain.ErrNotInRoom) {
				s.hub.SendTo(roomID, userID, Message{Type: TypeLockDenied, Payload: LockDeniedPayload{
					FieldID:     p.FieldID,
					RequesterID: userID,
				}})
			}
		}

	case TypeLockRenew:
		var p FieldPayload
		if decode(msg.Payload, &p) != nil || p.FieldID == "" {
			return
		}
		lock, err := s.core.RenewLock(roomID, p.FieldID, userID)
		if err != nil {
			// UI клиента устарел: пусть сбросит "свою" аренду
			s.hub.SendTo(roomID, userID, Message{Type: TypeLockReleased, Payload: LockReleasedPayload{FieldID: p.FieldID}})
			return
		}
		// продление видно только вызывающему
		s.hub.SendTo(roomID, userID, Message{Type: TypeLockGranted, Payload: lockGrantedPayload(lock)})

	case TypeLockRelease:
		var p FieldPayload
		if decode(msg.Payload, &p) != nil || p.FieldID == "" {
			return
		}
		s.core.ReleaseLock(roomID, p.FieldID, userID)

	case TypePreviewPublish:
		var p PreviewPublishPayload
		if decode(msg.Payload, &p) != nil || p.FieldID == "" {
			return
		}
		if _, err := s.core.PublishPreview(roomID, p.FieldID, userID, p.Content); err != nil {
			s.hub.SendTo(roomID, userID, Message{Type: TypeLockReleased, Payload: LockReleasedPayload{FieldID: p.FieldID}})
		}

	case TypeSessionRestore:
		var p RestorePayload
		if decode(msg.Payload, &p) != nil {
			return
		}
		_, err := s.core.RestoreSession(roomID, domain.Participant{
			ID:          userID,
			DisplayName: p.DisplayName,
			Department:  p.Department,
		}, p.LastFieldID)
		var denied *domain.LockDeniedError
		if errors.As(err, &denied) {
			slog.Debug("session restore lost lock",
				"room", roomID, "user", userID,
				"field", denied.FieldID, "holder", denied.HolderID)
		}

	default:
		// ignore
	}
}

func (s *Server) writeLoop(c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		case <-c.closed:
			return
		}
	}
}

// --- helpers ---

func decode(payload interface{}, dst interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, dst)
}

type wsConn struct {
	conn   *websocket.Conn
	roomID string
	userID string
	sendMu chan struct{}
	closed chan struct{}
}

func newWsConn(c *websocket.Conn, roomID, userID string) *wsConn {
	return &wsConn{
		conn:   c,
		roomID: roomID,
		userID: userID,
		sendMu: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) Send(msg Message) error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	return c.conn.WriteJSON(msg)
}

func (c *wsConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}

	return c.conn.Close()
}

func (c *wsConn) ParticipantID() string { return c.userID }
func (c *wsConn) RoomID() string        { return c.roomID }
