package api

import (
	"io"
	"net/http"

	"soundfy-core-shopify-layer/internal/application"
	"soundfy-core-shopify-layer/internal/domain"
	"soundfy-core-shopify-layer/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Server is the thin ingestion surface: webhook endpoints that verify
// the HMAC signature and enqueue the matching job, plus the OAuth
// callback and a health probe. All processing happens in the jobs.
type Server struct {
	app       goshopify.App
	queue     ports.JobQueue
	installer *application.InstallService
	logger    zerolog.Logger
}

// NewServer creates the ingestion server.
func NewServer(app goshopify.App, queue ports.JobQueue, installer *application.InstallService, logger zerolog.Logger) *Server {
	return &Server{app: app, queue: queue, installer: installer, logger: logger}
}

// Router builds the chi router.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
	}))

	r.Get("/up", s.health)
	r.Get("/auth/callback", s.authCallback)
	r.Post("/shopify/webhooks/{topic}", s.receiveWebhook)

	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// receiveWebhook verifies the delivery and hands it to the queue. The
// response is always fast: Shopify retries deliveries that do not
// complete within its deadline.
func (s *Server) receiveWebhook(w http.ResponseWriter, r *http.Request) {
	topicPath := chi.URLParam(r, "topic")
	topic := pathTopic(topicPath)

	jobName, ok := application.JobForTopic(topic)
	if !ok {
		http.NotFound(w, r)
		return
	}

	// VerifyWebhookRequest consumes and restores the body.
	if !s.app.VerifyWebhookRequest(r) {
		s.logger.Warn().Str("topic", topic).Msg("Webhook signature verification failed")
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	event := domain.WebhookEvent{
		Topic:   topic,
		Shop:    r.Header.Get("X-Shopify-Shop-Domain"),
		Payload: body,
	}
	args := application.WebhookArgs{ShopDomain: event.Shop, Webhook: event.Payload}
	if err := s.queue.Enqueue(r.Context(), jobName, args); err != nil {
		s.logger.Error().Str("topic", event.Topic).Str("shop", event.Shop).Err(err).
			Msg("Failed to enqueue webhook job")
		http.Error(w, "failed to enqueue", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// authCallback completes the OAuth install. Session state handling
// lives in the host's auth middleware; this endpoint only finishes the
// token exchange.
func (s *Server) authCallback(w http.ResponseWriter, r *http.Request) {
	shopDomain := r.URL.Query().Get("shop")
	code := r.URL.Query().Get("code")
	if shopDomain == "" || code == "" {
		http.Error(w, "missing shop or code", http.StatusBadRequest)
		return
	}

	if _, err := s.installer.Install(r.Context(), shopDomain, code); err != nil {
		s.logger.Error().Str("shop", shopDomain).Err(err).Msg("Install failed")
		http.Error(w, "install failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("installed"))
}

// pathTopic maps the route segment "products_create" back to the
// Shopify topic "products/create". Only the first underscore separates
// resource from action; compliance topics keep their inner underscores.
func pathTopic(path string) string {
	for i := 0; i < len(path); i++ {
		if path[i] == '_' {
			return path[:i] + "/" + path[i+1:]
		}
	}
	return path
}
