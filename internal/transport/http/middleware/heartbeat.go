package httpmw

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// HeartbeatToucher обновляет last_seen участника {roomID,userID}.
type HeartbeatToucher interface {
	Heartbeat(roomID, participantID string) error
}

// HeartbeatMiddleware засчитывает любой авторизованный запрос к комнате
// как heartbeat, если roomID есть в пути.
func HeartbeatMiddleware(core HeartbeatToucher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID := UserIDFromCtx(r.Context()); userID != "" {
				if roomID := chi.URLParam(r, "id"); roomID != "" {
					// best-effort: ошибки не прерывают запрос
					_ = core.Heartbeat(roomID, userID)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
