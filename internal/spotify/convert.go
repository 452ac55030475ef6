package spotify

import (
	"github.com/cesargomez89/statify/internal/domain"
)

func (a Artist) ToDomain() domain.Artist {
	artist := domain.Artist{
		ID:         a.ID,
		Name:       a.Name,
		Genres:     domain.StringSlice(a.Genres),
		Popularity: a.Popularity,
		Followers:  a.Followers.Total,
		ImageURL:   primaryImage(a.Images),
		URL:        a.ExternalURLs.Spotify,
	}
	artist.Normalize()
	return artist
}

func (t Track) ToDomain() domain.Track {
	var artists []string
	var artistIDs []string
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
		artistIDs = append(artistIDs, a.ID)
	}

	artist := "Unknown"
	if len(artists) > 0 {
		artist = artists[0]
	}

	return domain.Track{
		ID:         t.ID,
		Title:      t.Name,
		Artist:     artist,
		Artists:    artists,
		ArtistIDs:  artistIDs,
		Album:      t.Album.Name,
		AlbumID:    t.Album.ID,
		ImageURL:   primaryImage(t.Album.Images),
		URL:        t.ExternalURLs.Spotify,
		ISRC:       t.ExternalIDs.ISRC,
		DurationMS: t.DurationMS,
		Popularity: t.Popularity,
		Explicit:   t.Explicit,
	}
}

func (u User) ToDomain() domain.User {
	return domain.User{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Country:     u.Country,
		Product:     u.Product,
		ImageURL:    primaryImage(u.Images),
		Followers:   u.Followers.Total,
	}
}

// primaryImage picks the widest variant; the API usually sorts widest first
// but does not promise to.
func primaryImage(images []Image) string {
	best := ""
	bestWidth := -1
	for _, img := range images {
		if img.Width > bestWidth {
			bestWidth = img.Width
			best = img.URL
		}
	}
	return best
}
