package store

const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	display_name TEXT NOT NULL,
	country TEXT DEFAULT '',
	product TEXT DEFAULT '',
	image_url TEXT DEFAULT '',
	followers INTEGER DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tokens (
	user_id TEXT PRIMARY KEY,
	token TEXT NOT NULL,  -- oauth2 token JSON
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS artists (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	image_url TEXT DEFAULT '',
	url TEXT DEFAULT '',
	genres TEXT DEFAULT '[]',  -- JSON array
	popularity INTEGER DEFAULT 0,
	followers INTEGER DEFAULT 0,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tracks (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	artist TEXT DEFAULT '',
	artists TEXT DEFAULT '[]',  -- JSON array
	artist_ids TEXT DEFAULT '[]',  -- JSON array
	album TEXT DEFAULT '',
	album_id TEXT DEFAULT '',
	image_url TEXT DEFAULT '',
	url TEXT DEFAULT '',
	isrc TEXT DEFAULT '',
	duration_ms INTEGER DEFAULT 0,
	popularity INTEGER DEFAULT 0,
	explicit BOOLEAN DEFAULT 0,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS top_artists (
	user_id TEXT NOT NULL,
	artist_id TEXT NOT NULL,
	time_range TEXT NOT NULL,
	rank INTEGER NOT NULL,
	captured_at DATETIME NOT NULL,
	run_id TEXT,
	PRIMARY KEY (user_id, time_range, captured_at, rank),
	FOREIGN KEY (artist_id) REFERENCES artists(id)
);

CREATE INDEX IF NOT EXISTS idx_top_artists_lookup ON top_artists(user_id, time_range, captured_at);

CREATE TABLE IF NOT EXISTS top_tracks (
	user_id TEXT NOT NULL,
	track_id TEXT NOT NULL,
	time_range TEXT NOT NULL,
	rank INTEGER NOT NULL,
	captured_at DATETIME NOT NULL,
	run_id TEXT,
	PRIMARY KEY (user_id, time_range, captured_at, rank),
	FOREIGN KEY (track_id) REFERENCES tracks(id)
);

CREATE INDEX IF NOT EXISTS idx_top_tracks_lookup ON top_tracks(user_id, time_range, captured_at);

CREATE TABLE IF NOT EXISTS sync_runs (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	trigger_type TEXT NOT NULL,
	status TEXT NOT NULL,
	artist_count INTEGER DEFAULT 0,
	track_count INTEGER DEFAULT 0,
	error TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	finished_at DATETIME
);

-- Prevent duplicate concurrent runs for the same user
CREATE UNIQUE INDEX IF NOT EXISTS idx_sync_runs_active_user ON sync_runs(user_id)
WHERE status = 'running';

CREATE TABLE IF NOT EXISTS cache (
	key TEXT PRIMARY KEY,
	data BLOB,
	expires_at DATETIME
);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`
