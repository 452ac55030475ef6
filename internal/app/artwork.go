package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cesargomez89/statify/internal/constants"
	"github.com/cesargomez89/statify/internal/httpclient"
	"github.com/cesargomez89/statify/internal/logger"
	"github.com/cesargomez89/statify/internal/store"
)

// ErrNoArtwork means the entity exists but carries no image URL, or the
// entity is unknown.
var ErrNoArtwork = errors.New("no artwork available")

// ArtworkKind selects which catalog table an artwork lookup addresses.
type ArtworkKind string

const (
	ArtworkKindArtist ArtworkKind = "artist"
	ArtworkKindTrack  ArtworkKind = "track"
)

// ArtworkService proxies entity images: it resolves the stored image URL,
// fetches the bytes once, and serves later requests from the store cache.
type ArtworkService struct {
	DB     *store.DB
	HTTP   *httpclient.Client
	Logger *logger.Logger
	TTL    time.Duration
}

func NewArtworkService(db *store.DB, log *logger.Logger, ttl time.Duration) *ArtworkService {
	httpClient := &http.Client{Timeout: constants.ArtworkHTTPTimeout}
	return &ArtworkService{
		DB:     db,
		HTTP:   httpclient.New(httpClient, 0),
		Logger: log,
		TTL:    ttl,
	}
}

// cached image bytes travel with their content type.
type artworkEntry struct {
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// Image returns the image bytes and content type for an artist or track.
func (s *ArtworkService) Image(ctx context.Context, kind ArtworkKind, id string) ([]byte, string, error) {
	imageURL, err := s.resolveURL(kind, id)
	if err != nil {
		return nil, "", err
	}
	if imageURL == "" {
		return nil, "", ErrNoArtwork
	}

	key := fmt.Sprintf("artwork:%s:%s", kind, id)
	if data, err := s.DB.GetCache(key); err == nil && data != nil {
		var entry artworkEntry
		if err := json.Unmarshal(data, &entry); err == nil {
			return entry.Data, entry.ContentType, nil
		}
	}

	data, contentType, err := s.fetch(ctx, imageURL)
	if err != nil {
		return nil, "", err
	}

	if encoded, err := json.Marshal(artworkEntry{ContentType: contentType, Data: data}); err == nil {
		if err := s.DB.SetCache(key, encoded, s.TTL); err != nil {
			s.Logger.Warn("Failed to cache artwork", "key", key, "error", err)
		}
	}

	return data, contentType, nil
}

func (s *ArtworkService) resolveURL(kind ArtworkKind, id string) (string, error) {
	switch kind {
	case ArtworkKindArtist:
		artist, err := s.DB.GetArtist(id)
		if err != nil {
			return "", fmt.Errorf("failed to load artist: %w", err)
		}
		if artist == nil {
			return "", ErrNoArtwork
		}
		return artist.ImageURL, nil
	case ArtworkKindTrack:
		track, err := s.DB.GetTrack(id)
		if err != nil {
			return "", fmt.Errorf("failed to load track: %w", err)
		}
		if track == nil {
			return "", ErrNoArtwork
		}
		return track.ImageURL, nil
	}
	return "", fmt.Errorf("unsupported artwork kind %q", kind)
}

func (s *ArtworkService) fetch(ctx context.Context, imageURL string) ([]byte, string, error) {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return nil, "", fmt.Errorf("invalid image URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, "", fmt.Errorf("invalid URL scheme: %s (only http/https allowed)", parsed.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.HTTP.Do(ctx, req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = constants.MimeTypeJPEG
	}
	return data, contentType, nil
}
