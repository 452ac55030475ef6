package httpapp

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cesargomez89/statify/internal/app"
	"github.com/cesargomez89/statify/internal/http/dto"
	"github.com/cesargomez89/statify/internal/logger"
	"github.com/cesargomez89/statify/internal/spotify"
)

type Handler struct {
	Sessions *app.SessionManager
	Sync     *app.SyncService
	Stats    *app.StatsService
	Artwork  *app.ArtworkService
	Logger   *logger.Logger

	// Basic-auth credentials guarding /api.
	Username string
	Password string
}

func NewHandler(sessions *app.SessionManager, sync *app.SyncService, stats *app.StatsService, artwork *app.ArtworkService, username, password string, log *logger.Logger) *Handler {
	return &Handler{
		Sessions: sessions,
		Sync:     sync,
		Stats:    stats,
		Artwork:  artwork,
		Username: username,
		Password: password,
		Logger:   log.WithComponent("http"),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", h.AuthLogin)
		r.Get("/callback", h.AuthCallback)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.BasicAuth("statify", map[string]string{h.Username: h.Password}))

		r.Get("/me", h.Me)

		r.Route("/top", func(r chi.Router) {
			r.Get("/artists", h.TopArtists)
			r.Get("/tracks", h.TopTracks)
		})

		r.Route("/player", func(r chi.Router) {
			r.Get("/", h.PlaybackState)
			r.Get("/devices", h.Devices)
			r.Get("/currently-playing", h.CurrentlyPlaying)
			r.Get("/queue", h.Queue)
			r.Get("/recently-played", h.RecentlyPlayed)
			r.Put("/transfer", h.TransferPlayback)
			r.Put("/play", h.Play)
			r.Put("/pause", h.Pause)
			r.Post("/next", h.Next)
			r.Post("/previous", h.Previous)
			r.Put("/volume", h.SetVolume)
			r.Put("/shuffle", h.SetShuffle)
		})

		r.Get("/playlists", h.Playlists)
		r.Get("/search", h.Search)

		r.Route("/stats", func(r chi.Router) {
			r.Get("/genres", h.Genres)
			r.Get("/trends", h.Trends)
			r.Get("/overview", h.Overview)
		})

		r.Route("/syncs", func(r chi.Router) {
			r.Get("/", h.ListSyncs)
			r.Post("/", h.TriggerSync)
			r.Get("/{id}", h.GetSync)
		})

		r.Get("/artwork/{kind}/{id}", h.ArtworkImage)
	})
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Error("Failed to encode response", "error", err)
	}
}

// respondError maps the error chain to a status: validation and session
// errors have fixed codes, upstream API errors pass their status and raw
// body through untouched.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var apiErr *spotify.APIError
	if errors.As(err, &apiErr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(apiErr.Status)
		if len(apiErr.Body) > 0 {
			_, _ = w.Write(apiErr.Body)
		}
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, app.ErrNoSession):
		status = http.StatusUnauthorized
	case errors.Is(err, app.ErrNoArtwork):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		h.Logger.Error("Request failed", "error", err)
	}
	h.respondJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *Handler) respondValidation(w http.ResponseWriter, errs []dto.ValidationError) {
	h.respondJSON(w, http.StatusBadRequest, map[string]any{
		"error":  dto.ToResponse(errs),
		"fields": dto.ToMap(errs),
	})
}

// client resolves the active user's cached API client.
func (h *Handler) client(r *http.Request) (*spotify.CachedClient, error) {
	userID, err := h.Sessions.ActiveUserID()
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, app.ErrNoSession
	}
	return h.Sessions.ClientFor(r.Context(), userID)
}
