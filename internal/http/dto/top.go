package dto

import "github.com/cesargomez89/statify/internal/spotify"

type ArtistResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	Followers  int      `json:"followers"`
	ImageURL   string   `json:"image_url,omitempty"`
	URL        string   `json:"url,omitempty"`
}

func NewArtistResponse(a spotify.Artist) ArtistResponse {
	artist := a.ToDomain()
	return ArtistResponse{
		ID:         artist.ID,
		Name:       artist.Name,
		Genres:     artist.Genres,
		Popularity: artist.Popularity,
		Followers:  artist.Followers,
		ImageURL:   artist.ImageURL,
		URL:        artist.URL,
	}
}

type TrackResponse struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Artist     string   `json:"artist"`
	Artists    []string `json:"artists"`
	Album      string   `json:"album"`
	DurationMS int      `json:"duration_ms"`
	Popularity int      `json:"popularity"`
	Explicit   bool     `json:"explicit"`
	ImageURL   string   `json:"image_url,omitempty"`
	URL        string   `json:"url,omitempty"`
}

func NewTrackResponse(t spotify.Track) TrackResponse {
	track := t.ToDomain()
	return TrackResponse{
		ID:         track.ID,
		Title:      track.Title,
		Artist:     track.Artist,
		Artists:    track.Artists,
		Album:      track.Album,
		DurationMS: track.DurationMS,
		Popularity: track.Popularity,
		Explicit:   track.Explicit,
		ImageURL:   track.ImageURL,
		URL:        track.URL,
	}
}

type TopArtistsResponse struct {
	Items    []ArtistResponse `json:"items"`
	Total    int              `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
	Next     string           `json:"next,omitempty"`
	Previous string           `json:"previous,omitempty"`
}

func NewTopArtistsResponse(page *spotify.ArtistPage) TopArtistsResponse {
	items := make([]ArtistResponse, 0, len(page.Items))
	for _, artist := range page.Items {
		items = append(items, NewArtistResponse(artist))
	}
	return TopArtistsResponse{
		Items:    items,
		Total:    page.Total,
		Limit:    page.Limit,
		Offset:   page.Offset,
		Next:     page.Next,
		Previous: page.Previous,
	}
}

type TopTracksResponse struct {
	Items    []TrackResponse `json:"items"`
	Total    int             `json:"total"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
	Next     string          `json:"next,omitempty"`
	Previous string          `json:"previous,omitempty"`
}

func NewTopTracksResponse(page *spotify.TrackPage) TopTracksResponse {
	items := make([]TrackResponse, 0, len(page.Items))
	for _, track := range page.Items {
		items = append(items, NewTrackResponse(track))
	}
	return TopTracksResponse{
		Items:    items,
		Total:    page.Total,
		Limit:    page.Limit,
		Offset:   page.Offset,
		Next:     page.Next,
		Previous: page.Previous,
	}
}
