package http

import (
	"net/http"
	"time"

	httpmw "github.com/cwrk-planet/collab-service/internal/transport/http/middleware"
	"github.com/cwrk-planet/collab-service/internal/transport/ws"
	"github.com/cwrk-planet/collab-service/pkg/httputil"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler, core httpmw.HeartbeatToucher, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(httputil.MiddlewareRequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)
	r.Use(httputil.MiddlewareLogging)

	// WS endpoint (авторизация через query, см. ws.Server)
	r.Get("/ws/rooms/{id}", wsServer.HandleWS)

	// Все маршруты требуют access_token и user_id
	r.Group(func(pr chi.Router) {
		pr.Use(httpmw.AuthMiddleware)
		pr.Use(middlewareChi.Timeout(30 * time.Second))

		pr.Route("/rooms/{id}", func(rr chi.Router) {
			rr.Use(httpmw.HeartbeatMiddleware(core))

			rr.Get("/participants", h.GetParticipants)
			rr.Get("/locks", h.GetLocks)
			rr.Get("/fields", h.ListRecords)
			rr.Get("/fields/{fieldID}", h.GetRecord)
			rr.Get("/fields/{fieldID}/preview", h.GetPreview)
			rr.Post("/fields/{fieldID}/commit", h.CommitField)
		})
	})

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
