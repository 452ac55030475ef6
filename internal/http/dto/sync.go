package dto

import (
	"time"

	"github.com/cesargomez89/statify/internal/domain"
)

type SyncRunResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Trigger     string `json:"trigger"`
	Status      string `json:"status"`
	ArtistCount int    `json:"artist_count"`
	TrackCount  int    `json:"track_count"`
	CreatedAt   string `json:"created_at"`
	FinishedAt  string `json:"finished_at,omitempty"`
	Error       string `json:"error,omitempty"`
}

func NewSyncRunResponse(run *domain.SyncRun) SyncRunResponse {
	resp := SyncRunResponse{
		ID:          run.ID,
		UserID:      run.UserID,
		Trigger:     string(run.Trigger),
		Status:      string(run.Status),
		ArtistCount: run.ArtistCount,
		TrackCount:  run.TrackCount,
		CreatedAt:   run.CreatedAt.Format(time.RFC3339),
	}
	if run.FinishedAt != nil {
		resp.FinishedAt = run.FinishedAt.Format(time.RFC3339)
	}
	if run.Error != nil {
		resp.Error = *run.Error
	}
	return resp
}

func NewSyncRunsResponse(runs []*domain.SyncRun) []SyncRunResponse {
	resp := make([]SyncRunResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, NewSyncRunResponse(run))
	}
	return resp
}

// TransferRequest is the body of the playback-transfer endpoint.
type TransferRequest struct {
	DeviceID string `json:"device_id"`
	Play     bool   `json:"play"`
}

// PlayRequest is the optional body of the play endpoint. An empty body
// resumes the active device.
type PlayRequest struct {
	DeviceID   string   `json:"device_id,omitempty"`
	ContextURI string   `json:"context_uri,omitempty"`
	URIs       []string `json:"uris,omitempty"`
	PositionMS int      `json:"position_ms,omitempty"`
}
