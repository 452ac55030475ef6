package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/cesargomez89/statify/internal/app"
	"github.com/cesargomez89/statify/internal/config"
	"github.com/cesargomez89/statify/internal/domain"
	"github.com/cesargomez89/statify/internal/logger"
	"github.com/cesargomez89/statify/internal/spotify"
	"github.com/cesargomez89/statify/internal/store"
)

const loginTimeout = 5 * time.Minute

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: statify <command> [flags]

Commands:
  login      Authorize statify against your Spotify account
  users      List logged-in accounts
  devices    List your Spotify Connect devices
  top        Show your top artists or tracks
  recent     Show your recently played tracks
  genres     Show genre counts from the latest stored snapshot
  now        Show what is playing right now
  sync       Capture a snapshot of your current top items

Run 'statify <command> -h' for command flags.
`)
}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		log.Fatal("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET are required")
	}

	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	quiet := logger.New(logger.Config{Level: "error", Format: "text"})
	auth := spotify.NewAuthenticator(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURI)
	sessions := app.NewSessionManager(db, store.NewSettingsRepo(db), auth, cfg.CacheTTL, quiet)

	cli := &cli{cfg: cfg, db: db, sessions: sessions, logger: quiet}

	var runErr error
	switch os.Args[1] {
	case "login":
		runErr = cli.login(os.Args[2:])
	case "users":
		runErr = cli.users(os.Args[2:])
	case "devices":
		runErr = cli.devices(os.Args[2:])
	case "top":
		runErr = cli.top(os.Args[2:])
	case "recent":
		runErr = cli.recent(os.Args[2:])
	case "genres":
		runErr = cli.genres(os.Args[2:])
	case "now":
		runErr = cli.now(os.Args[2:])
	case "sync":
		runErr = cli.sync(os.Args[2:])
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if runErr != nil {
		log.Fatalf("Error: %v", runErr)
	}
}

type cli struct {
	cfg      *config.Config
	db       *store.DB
	sessions *app.SessionManager
	logger   *logger.Logger
}

// client returns the cached API client for whoever logged in last.
func (c *cli) client(ctx context.Context) (*spotify.CachedClient, error) {
	userID, err := c.sessions.ActiveUserID()
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, fmt.Errorf("not logged in, run 'statify login' first")
	}
	return c.sessions.ClientFor(ctx, userID)
}

// login runs the authorization-code flow with a throwaway local server
// listening on the configured redirect URI.
func (c *cli) login(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	redirect, err := url.Parse(c.cfg.RedirectURI)
	if err != nil {
		return fmt.Errorf("invalid redirect URI: %w", err)
	}

	state := uuid.New().String()
	type result struct {
		user *domain.User
		err  error
	}
	done := make(chan result, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("state"); got != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			done <- result{err: fmt.Errorf("state mismatch")}
			return
		}
		if errMsg := r.URL.Query().Get("error"); errMsg != "" {
			http.Error(w, "login denied", http.StatusBadRequest)
			done <- result{err: fmt.Errorf("login denied: %s", errMsg)}
			return
		}
		user, err := c.sessions.HandleCallback(r.Context(), r.URL.Query().Get("code"))
		if err != nil {
			http.Error(w, "login failed", http.StatusInternalServerError)
			done <- result{err: err}
			return
		}
		fmt.Fprint(w, "Login successful! You can close this window.")
		done <- result{user: user}
	})

	srv := &http.Server{Addr: redirect.Host, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			done <- result{err: err}
		}
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	fmt.Println("Open this URL in your browser to log in:")
	fmt.Println()
	color.Cyan("  %s", c.sessions.AuthURL(state))
	fmt.Println()

	select {
	case res := <-done:
		if res.err != nil {
			return res.err
		}
		color.Green("Logged in as %s (%s)", res.user.DisplayName, res.user.ID)
		return nil
	case <-time.After(loginTimeout):
		return fmt.Errorf("timed out waiting for the login callback")
	}
}

func (c *cli) users(args []string) error {
	fs := flag.NewFlagSet("users", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print raw JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return err
	}

	users, err := c.db.ListUsers()
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Println("No accounts yet. Run 'statify login' first.")
		return nil
	}

	if *asJSON {
		return printJSON(users)
	}
	activeID, _ := c.sessions.ActiveUserID()
	printUsersTable(users, activeID)
	return nil
}

func (c *cli) devices(args []string) error {
	fs := flag.NewFlagSet("devices", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print raw JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	client, err := c.client(ctx)
	if err != nil {
		return err
	}
	devices, err := client.Devices(ctx)
	if err != nil {
		return err
	}

	if *asJSON {
		return printJSON(devices)
	}
	printDevicesTable(devices)
	return nil
}

func (c *cli) top(args []string) error {
	fs := flag.NewFlagSet("top", flag.ExitOnError)
	kind := fs.String("kind", "artists", "What to list: artists or tracks")
	timeRange := fs.String("range", "medium_term", "Time range: short_term, medium_term or long_term")
	limit := fs.Int("limit", 20, "How many items to show (1-50)")
	asJSON := fs.Bool("json", false, "Print raw JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !spotify.TimeRange(*timeRange).Valid() {
		return fmt.Errorf("invalid time range %q", *timeRange)
	}

	ctx := context.Background()
	client, err := c.client(ctx)
	if err != nil {
		return err
	}

	opts := &spotify.TopOptions{TimeRange: spotify.TimeRange(*timeRange), Limit: *limit}
	switch *kind {
	case "artists":
		page, err := client.TopArtists(ctx, opts)
		if err != nil {
			return err
		}
		if *asJSON {
			return printJSON(page)
		}
		printArtistsTable(*timeRange, page.Items)
	case "tracks":
		page, err := client.TopTracks(ctx, opts)
		if err != nil {
			return err
		}
		if *asJSON {
			return printJSON(page)
		}
		printTracksTable(*timeRange, page.Items)
	default:
		return fmt.Errorf("invalid kind %q, want artists or tracks", *kind)
	}
	return nil
}

func (c *cli) recent(args []string) error {
	fs := flag.NewFlagSet("recent", flag.ExitOnError)
	limit := fs.Int("limit", 20, "How many items to show (1-50)")
	asJSON := fs.Bool("json", false, "Print raw JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	client, err := c.client(ctx)
	if err != nil {
		return err
	}
	page, err := client.RecentlyPlayed(ctx, &spotify.RecentlyPlayedOptions{Limit: *limit})
	if err != nil {
		return err
	}

	if *asJSON {
		return printJSON(page)
	}
	printRecentTable(page.Items)
	return nil
}

// genres reads the latest stored snapshot; it needs a prior sync, not the API.
func (c *cli) genres(args []string) error {
	fs := flag.NewFlagSet("genres", flag.ExitOnError)
	timeRange := fs.String("range", "medium_term", "Time range: short_term, medium_term or long_term")
	limit := fs.Int("limit", 20, "How many genres to show")
	asJSON := fs.Bool("json", false, "Print raw JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !spotify.TimeRange(*timeRange).Valid() {
		return fmt.Errorf("invalid time range %q", *timeRange)
	}

	userID, err := c.sessions.ActiveUserID()
	if err != nil {
		return err
	}
	if userID == "" {
		return fmt.Errorf("not logged in, run 'statify login' first")
	}

	stats := app.NewStatsService(c.db)
	counts, err := stats.Genres(userID, *timeRange, *limit)
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		fmt.Println("No snapshot stored yet. Run 'statify sync' first.")
		return nil
	}

	if *asJSON {
		return printJSON(counts)
	}
	printGenresTable(*timeRange, counts)
	return nil
}

func (c *cli) now(args []string) error {
	fs := flag.NewFlagSet("now", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print raw JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	client, err := c.client(ctx)
	if err != nil {
		return err
	}
	playing, err := client.CurrentlyPlaying(ctx)
	if err != nil {
		return err
	}
	if playing == nil || playing.Item == nil {
		fmt.Println("Nothing is playing.")
		return nil
	}

	if *asJSON {
		return printJSON(playing)
	}

	track := playing.Item.ToDomain()
	verb := "Paused"
	if playing.IsPlaying {
		verb = "Now playing"
	}
	fmt.Printf("%s: %s — %s (%s / %s)\n",
		color.GreenString(verb),
		color.New(color.Bold).Sprint(track.Title),
		track.Artist,
		formatDuration(playing.ProgressMS),
		formatDuration(track.DurationMS),
	)
	return nil
}

func (c *cli) sync(args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print the run record as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	userID, err := c.sessions.ActiveUserID()
	if err != nil {
		return err
	}
	if userID == "" {
		return fmt.Errorf("not logged in, run 'statify login' first")
	}

	syncService := app.NewSyncService(c.db, c.sessions, c.logger)
	run, err := syncService.Run(context.Background(), userID, domain.SyncTriggerManual)
	if err != nil {
		return err
	}

	if *asJSON {
		return printJSON(run)
	}
	color.Green("Sync %s: %d artists, %d tracks captured", run.Status, run.ArtistCount, run.TrackCount)
	return nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
