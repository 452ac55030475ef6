package httpapp

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cesargomez89/statify/internal/app"
	"github.com/cesargomez89/statify/internal/domain"
	"github.com/cesargomez89/statify/internal/http/dto"
	"github.com/cesargomez89/statify/internal/spotify"
	"github.com/cesargomez89/statify/internal/store"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AuthLogin starts the authorization-code flow. The state value is persisted
// so the callback can verify it even across a restart.
func (h *Handler) AuthLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.New().String()
	if err := h.Sessions.Settings.Set(store.SettingOAuthState, state); err != nil {
		h.respondError(w, err)
		return
	}
	http.Redirect(w, r, h.Sessions.AuthURL(state), http.StatusTemporaryRedirect)
}

func (h *Handler) AuthCallback(w http.ResponseWriter, r *http.Request) {
	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "login denied: " + errMsg})
		return
	}

	state := r.URL.Query().Get("state")
	expected, err := h.Sessions.Settings.Get(store.SettingOAuthState)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if expected == "" || state != expected {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "state mismatch"})
		return
	}
	_ = h.Sessions.Settings.Delete(store.SettingOAuthState)

	code := r.URL.Query().Get("code")
	if code == "" {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "code is required"})
		return
	}

	user, err := h.Sessions.HandleCallback(r.Context(), code)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, user)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	client, err := h.client(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	user, err := client.CurrentUser(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, dto.NewUserResponse(user))
}

func (h *Handler) TopArtists(w http.ResponseWriter, r *http.Request) {
	query, errs := dto.ParseTopQuery(r.URL.Query())
	if errs != nil {
		h.respondValidation(w, errs)
		return
	}
	client, err := h.client(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	page, err := client.TopArtists(r.Context(), &spotify.TopOptions{
		TimeRange: spotify.TimeRange(query.TimeRange),
		Limit:     query.Limit,
		Offset:    query.Offset,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, dto.NewTopArtistsResponse(page))
}

func (h *Handler) TopTracks(w http.ResponseWriter, r *http.Request) {
	query, errs := dto.ParseTopQuery(r.URL.Query())
	if errs != nil {
		h.respondValidation(w, errs)
		return
	}
	client, err := h.client(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	page, err := client.TopTracks(r.Context(), &spotify.TopOptions{
		TimeRange: spotify.TimeRange(query.TimeRange),
		Limit:     query.Limit,
		Offset:    query.Offset,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, dto.NewTopTracksResponse(page))
}

func (h *Handler) Devices(w http.ResponseWriter, r *http.Request) {
	client, err := h.client(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	devices, err := client.Devices(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string][]spotify.Device{"devices": devices})
}

func (h *Handler) PlaybackState(w http.ResponseWriter, r *http.Request) {
	client, err := h.client(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	state, err := client.PlaybackState(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	if state == nil {
		h.respondJSON(w, http.StatusNoContent, nil)
		return
	}
	h.respondJSON(w, http.StatusOK, state)
}

func (h *Handler) CurrentlyPlaying(w http.ResponseWriter, r *http.Request) {
	client, err := h.client(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	playing, err := client.CurrentlyPlaying(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	if playing == nil {
		h.respondJSON(w, http.StatusNoContent, nil)
		return
	}
	h.respondJSON(w, http.StatusOK, playing)
}

func (h *Handler) Queue(w http.ResponseWriter, r *http.Request) {
	client, err := h.client(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	queue, err := client.UserQueue(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, queue)
}

func (h *Handler) RecentlyPlayed(w http.ResponseWriter, r *http.Request) {
	query, errs := dto.ParseRecentQuery(r.URL.Query())
	if errs != nil {
		h.respondValidation(w, errs)
		return
	}
	client, err := h.client(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	page, err := client.RecentlyPlayed(r.Context(), &spotify.RecentlyPlayedOptions{
		Limit:  query.Limit,
		After:  query.After,
		Before: query.Before,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, page)
}

func (h *Handler) TransferPlayback(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.DeviceID == "" {
		h.respondValidation(w, []dto.ValidationError{{Field: "device_id", Message: "is required"}})
		return
	}

	client, err := h.client(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if err := client.TransferPlayback(r.Context(), req.DeviceID, req.Play); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) Play(w http.ResponseWriter, r *http.Request) {
	var req dto.PlayRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}

	client, err := h.client(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	err = client.Play(r.Context(), &spotify.PlayOptions{
		DeviceID:   req.DeviceID,
		ContextURI: req.ContextURI,
		URIs:       req.URIs,
		PositionMS: req.PositionMS,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) Pause(w http.ResponseWriter, r *http.Request) {
	client, err := h.client(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if err := client.Pause(r.Context(), r.URL.Query().Get("device_id")); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	client, err := h.client(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if err := client.Next(r.Context(), r.URL.Query().Get("device_id")); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) Previous(w http.ResponseWriter, r *http.Request) {
	client, err := h.client(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if err := client.Previous(r.Context(), r.URL.Query().Get("device_id")); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) SetVolume(w http.ResponseWriter, r *http.Request) {
	percent, errs := dto.ParseVolume(r.URL.Query())
	if errs != nil {
		h.respondValidation(w, errs)
		return
	}
	client, err := h.client(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if err := client.SetVolume(r.Context(), percent, r.URL.Query().Get("device_id")); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) SetShuffle(w http.ResponseWriter, r *http.Request) {
	state, errs := dto.ParseShuffle(r.URL.Query())
	if errs != nil {
		h.respondValidation(w, errs)
		return
	}
	client, err := h.client(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if err := client.SetShuffle(r.Context(), state, r.URL.Query().Get("device_id")); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) Playlists(w http.ResponseWriter, r *http.Request) {
	query, errs := dto.ParsePageQuery(r.URL.Query())
	if errs != nil {
		h.respondValidation(w, errs)
		return
	}
	client, err := h.client(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	page, err := client.CurrentUserPlaylists(r.Context(), &spotify.PageOptions{
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, page)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query, errs := dto.ParseSearchQuery(r.URL.Query())
	if errs != nil {
		h.respondValidation(w, errs)
		return
	}
	client, err := h.client(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	result, err := client.Search(r.Context(), query.Query, &spotify.PageOptions{
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	query, errs := dto.ParseTopQuery(r.URL.Query())
	if errs != nil {
		h.respondValidation(w, errs)
		return
	}
	userID, err := h.activeUser()
	if err != nil {
		h.respondError(w, err)
		return
	}

	timeRange := query.TimeRange
	if timeRange == "" {
		timeRange = string(spotify.TimeRangeMedium)
	}
	genres, err := h.Stats.Genres(userID, timeRange, query.Limit)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"time_range": timeRange, "genres": genres})
}

func (h *Handler) Trends(w http.ResponseWriter, r *http.Request) {
	query, errs := dto.ParseTopQuery(r.URL.Query())
	if errs != nil {
		h.respondValidation(w, errs)
		return
	}
	userID, err := h.activeUser()
	if err != nil {
		h.respondError(w, err)
		return
	}

	timeRange := query.TimeRange
	if timeRange == "" {
		timeRange = string(spotify.TimeRangeMedium)
	}
	trends, err := h.Stats.Trends(userID, timeRange)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"time_range": timeRange, "trends": trends})
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.Stats.Overview()
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, overview)
}

func (h *Handler) ListSyncs(w http.ResponseWriter, r *http.Request) {
	query, errs := dto.ParsePageQuery(r.URL.Query())
	if errs != nil {
		h.respondValidation(w, errs)
		return
	}
	runs, err := h.Sync.ListRuns(query.Limit)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, dto.NewSyncRunsResponse(runs))
}

func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	userID, err := h.activeUser()
	if err != nil {
		h.respondError(w, err)
		return
	}
	run, err := h.Sync.Run(r.Context(), userID, domain.SyncTriggerManual)
	if err != nil {
		if run != nil {
			h.respondJSON(w, http.StatusInternalServerError, dto.NewSyncRunResponse(run))
			return
		}
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, dto.NewSyncRunResponse(run))
}

func (h *Handler) GetSync(w http.ResponseWriter, r *http.Request) {
	run, err := h.Sync.GetRun(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	if run == nil {
		h.respondJSON(w, http.StatusNotFound, map[string]string{"error": "sync run not found"})
		return
	}
	h.respondJSON(w, http.StatusOK, dto.NewSyncRunResponse(run))
}

func (h *Handler) ArtworkImage(w http.ResponseWriter, r *http.Request) {
	kind := app.ArtworkKind(chi.URLParam(r, "kind"))
	if kind != app.ArtworkKindArtist && kind != app.ArtworkKindTrack {
		h.respondValidation(w, []dto.ValidationError{{Field: "kind", Message: "must be artist or track"}})
		return
	}

	data, contentType, err := h.Artwork.Image(r.Context(), kind, chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(data)
}

func (h *Handler) activeUser() (string, error) {
	userID, err := h.Sessions.ActiveUserID()
	if err != nil {
		return "", err
	}
	if userID == "" {
		return "", app.ErrNoSession
	}
	return userID, nil
}
