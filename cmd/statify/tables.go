package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/cesargomez89/statify/internal/domain"
	"github.com/cesargomez89/statify/internal/spotify"
)

func newTable(header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(header)
	t.SetStyle(table.StyleRounded)
	return t
}

func printUsersTable(users []*domain.User, activeID string) {
	fmt.Println()
	color.Cyan("Accounts")
	fmt.Println()

	t := newTable(table.Row{"#", "Name", "User ID", "Country", "Active"})
	for i, u := range users {
		active := ""
		if u.ID == activeID {
			active = color.GreenString("●")
		}
		t.AppendRow(table.Row{
			i + 1,
			color.New(color.Bold).Sprint(u.DisplayName),
			color.HiBlackString(u.ID),
			u.Country,
			active,
		})
	}
	t.Render()
}

func printDevicesTable(devices []spotify.Device) {
	fmt.Println()
	color.Cyan("Spotify Connect devices")
	fmt.Println()

	t := newTable(table.Row{"#", "Name", "Type", "Status", "Volume", "Device ID"})
	for i, device := range devices {
		status := "Inactive"
		if device.IsActive {
			status = color.GreenString("● Active")
		}
		t.AppendRow(table.Row{
			i + 1,
			color.New(color.Bold).Sprint(device.Name),
			device.Type,
			status,
			fmt.Sprintf("%d%%", device.VolumePercent),
			color.HiBlackString(device.ID),
		})
	}
	t.Render()

	fmt.Println()
	fmt.Printf("Total devices: %d\n", len(devices))
}

func printArtistsTable(timeRange string, artists []spotify.Artist) {
	fmt.Println()
	color.Cyan("Top artists (%s)", timeRange)
	fmt.Println()

	t := newTable(table.Row{"#", "Artist", "Genres", "Popularity", "Followers"})
	for i, a := range artists {
		artist := a.ToDomain()
		t.AppendRow(table.Row{
			i + 1,
			color.New(color.Bold).Sprint(artist.Name),
			truncate(strings.Join(artist.Genres, ", "), 40),
			artist.Popularity,
			artist.Followers,
		})
	}
	t.Render()
}

func printTracksTable(timeRange string, tracks []spotify.Track) {
	fmt.Println()
	color.Cyan("Top tracks (%s)", timeRange)
	fmt.Println()

	t := newTable(table.Row{"#", "Title", "Artist", "Album", "Length"})
	for i, tr := range tracks {
		track := tr.ToDomain()
		t.AppendRow(table.Row{
			i + 1,
			color.New(color.Bold).Sprint(truncate(track.Title, 40)),
			truncate(track.Artist, 30),
			truncate(track.Album, 30),
			formatDuration(track.DurationMS),
		})
	}
	t.Render()
}

func printRecentTable(items []spotify.PlayHistoryItem) {
	fmt.Println()
	color.Cyan("Recently played")
	fmt.Println()

	t := newTable(table.Row{"Played at", "Title", "Artist", "Length"})
	for _, item := range items {
		track := item.Track.ToDomain()
		t.AppendRow(table.Row{
			item.PlayedAt.Local().Format(time.DateTime),
			color.New(color.Bold).Sprint(truncate(track.Title, 40)),
			truncate(track.Artist, 30),
			formatDuration(track.DurationMS),
		})
	}
	t.Render()
}

func printGenresTable(timeRange string, counts []domain.GenreCount) {
	fmt.Println()
	color.Cyan("Genres (%s)", timeRange)
	fmt.Println()

	t := newTable(table.Row{"#", "Genre", "Artists"})
	for i, g := range counts {
		t.AppendRow(table.Row{i + 1, g.Genre, g.Count})
	}
	t.Render()
}

func formatDuration(ms int) string {
	d := time.Duration(ms) * time.Millisecond
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
