package store

// schemaSQL is the DDL for all tables. Objects are keyed by publicID;
// document_id records which archive last delivered them.
const schemaSQL = `
-- Document registry with hash-based change detection
CREATE TABLE IF NOT EXISTS documents (
    id INTEGER PRIMARY KEY,
    path TEXT NOT NULL UNIQUE,
    filename TEXT NOT NULL,
    format TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    ingest_id TEXT,
    status TEXT DEFAULT 'pending',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS events (
    id INTEGER PRIMARY KEY,
    document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    public_id TEXT NOT NULL UNIQUE,
    preferred_origin_id TEXT,
    preferred_magnitude_id TEXT,
    preferred_focal_mechanism_id TEXT,
    type TEXT,
    description TEXT
);

CREATE TABLE IF NOT EXISTS origins (
    id INTEGER PRIMARY KEY,
    document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    public_id TEXT NOT NULL UNIQUE,
    time TEXT NOT NULL,
    latitude REAL NOT NULL,
    longitude REAL NOT NULL,
    depth REAL,
    method_id TEXT,
    evaluation_mode TEXT,
    evaluation_status TEXT
);

CREATE TABLE IF NOT EXISTS arrivals (
    origin_id INTEGER NOT NULL REFERENCES origins(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    pick_id TEXT NOT NULL,
    phase TEXT,
    distance REAL,
    azimuth REAL,
    time_residual REAL,
    weight REAL,
    PRIMARY KEY (origin_id, position)
);

CREATE TABLE IF NOT EXISTS magnitudes (
    origin_id INTEGER NOT NULL REFERENCES origins(id) ON DELETE CASCADE,
    public_id TEXT NOT NULL,
    type TEXT,
    value REAL NOT NULL,
    station_count INTEGER,
    PRIMARY KEY (origin_id, public_id)
);

-- Hypocentres as earth-centred cartesian km via sqlite-vec
CREATE VIRTUAL TABLE IF NOT EXISTS vec_origins USING vec0(
    origin_id INTEGER PRIMARY KEY,
    hypocenter float[3]
);

CREATE TABLE IF NOT EXISTS picks (
    id INTEGER PRIMARY KEY,
    document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    public_id TEXT NOT NULL UNIQUE,
    time TEXT NOT NULL,
    network TEXT NOT NULL,
    station TEXT NOT NULL,
    location TEXT NOT NULL,
    channel TEXT NOT NULL,
    phase_hint TEXT,
    evaluation_mode TEXT,
    evaluation_status TEXT
);

CREATE TABLE IF NOT EXISTS amplitudes (
    id INTEGER PRIMARY KEY,
    document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    public_id TEXT NOT NULL UNIQUE,
    pick_id TEXT,
    type TEXT,
    value REAL,
    snr REAL,
    network TEXT NOT NULL,
    station TEXT NOT NULL,
    location TEXT NOT NULL,
    channel TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS focal_mechanisms (
    id INTEGER PRIMARY KEY,
    document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    public_id TEXT NOT NULL UNIQUE,
    triggering_origin_id TEXT,
    evaluation_mode TEXT,
    strike1 REAL, dip1 REAL, rake1 REAL,
    strike2 REAL, dip2 REAL, rake2 REAL
);

-- Indexes
CREATE INDEX IF NOT EXISTS idx_events_document ON events(document_id);
CREATE INDEX IF NOT EXISTS idx_events_preferred_origin ON events(preferred_origin_id);
CREATE INDEX IF NOT EXISTS idx_origins_document ON origins(document_id);
CREATE INDEX IF NOT EXISTS idx_origins_time ON origins(time);
CREATE INDEX IF NOT EXISTS idx_arrivals_pick ON arrivals(pick_id);
CREATE INDEX IF NOT EXISTS idx_picks_document ON picks(document_id);
CREATE INDEX IF NOT EXISTS idx_amplitudes_document ON amplitudes(document_id);
CREATE INDEX IF NOT EXISTS idx_amplitudes_pick ON amplitudes(pick_id);
CREATE INDEX IF NOT EXISTS idx_focal_mechanisms_document ON focal_mechanisms(document_id);
CREATE INDEX IF NOT EXISTS idx_documents_hash ON documents(content_hash);
`
