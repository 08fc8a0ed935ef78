// Package web serves the browser page and the JSON/SSE API behind it.
package web

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ytget/yt-webui/internal/config"
	"github.com/ytget/yt-webui/internal/download"
	xlog "github.com/ytget/yt-webui/internal/log"
	"github.com/ytget/yt-webui/internal/session"
)

//go:embed templates/index.html
var templates embed.FS

// RateLimitWindow is the window of the per-client API limit
const RateLimitWindow = time.Minute

// Server holds the handlers' dependencies
type Server struct {
	svc      *download.Service
	sessions *session.Counter
	cfg      *config.Holder
	loc      *Localization
	page     *template.Template
	logger   zerolog.Logger
}

// NewServer creates the web server
func NewServer(svc *download.Service, sessions *session.Counter, cfg *config.Holder) (*Server, error) {
	page, err := template.ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &Server{
		svc:      svc,
		sessions: sessions,
		cfg:      cfg,
		loc:      NewLocalization(),
		page:     page,
		logger:   xlog.WithComponent("web"),
	}, nil
}

// Handler returns the routed HTTP handler
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(Recoverer)
	r.Use(RequestID)
	r.Use(AccessLog)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(session.Middleware)
		r.Get("/", s.handleIndex)

		r.Route("/api", func(r chi.Router) {
			settings := s.cfg.Get()
			r.Use(RateLimit(settings.GetRateLimitPerMinute(), RateLimitWindow))

			r.Post("/preview", s.handlePreview)
			r.Get("/download", s.handleDownload)
			r.Get("/quick", s.handleQuick)
			r.Post("/audio", s.handleAudio)
			r.Post("/playlist", s.handlePlaylist)
			r.Get("/playlist/download", s.handlePlaylistDownload)
			r.Get("/session", s.handleSession)
			r.Get("/cookies", s.handleCookies)
		})
	})

	return r
}

// localization returns the texts for the request's language
func (s *Server) localization(r *http.Request, cfg config.Settings) *Localization {
	return s.loc.WithLanguage(s.loc.RequestLanguage(r, cfg.GetLanguage()))
}
