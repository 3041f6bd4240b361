package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	sqlite_vec.Auto()
}

// EarthRadiusKm is the mean earth radius used to place hypocentres.
const EarthRadiusKm = 6371.0

// Document represents a row in the documents table.
type Document struct {
	ID          int64  `json:"id"`
	Path        string `json:"path"`
	Filename    string `json:"filename"`
	Format      string `json:"format"`
	ContentHash string `json:"content_hash"`
	IngestID    string `json:"ingest_id,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// Event represents a row in the events table.
type Event struct {
	ID                        int64  `json:"id"`
	DocumentID                int64  `json:"document_id"`
	PublicID                  string `json:"public_id"`
	PreferredOriginID         string `json:"preferred_origin_id,omitempty"`
	PreferredMagnitudeID      string `json:"preferred_magnitude_id,omitempty"`
	PreferredFocalMechanismID string `json:"preferred_focal_mechanism_id,omitempty"`
	Type                      string `json:"type,omitempty"`
	Description               string `json:"description,omitempty"`
}

// Origin represents a row in the origins table with its arrivals and
// magnitudes.
type Origin struct {
	ID               int64       `json:"id"`
	DocumentID       int64       `json:"document_id"`
	PublicID         string      `json:"public_id"`
	Time             string      `json:"time"`
	Latitude         float64     `json:"latitude"`
	Longitude        float64     `json:"longitude"`
	Depth            *float64    `json:"depth,omitempty"`
	MethodID         string      `json:"method_id,omitempty"`
	EvaluationMode   string      `json:"evaluation_mode,omitempty"`
	EvaluationStatus string      `json:"evaluation_status,omitempty"`
	Arrivals         []Arrival   `json:"arrivals,omitempty"`
	Magnitudes       []Magnitude `json:"magnitudes,omitempty"`
}

// Arrival represents a row in the arrivals table.
type Arrival struct {
	PickID       string   `json:"pick_id"`
	Phase        string   `json:"phase,omitempty"`
	Distance     *float64 `json:"distance,omitempty"`
	Azimuth      *float64 `json:"azimuth,omitempty"`
	TimeResidual *float64 `json:"time_residual,omitempty"`
	Weight       *float64 `json:"weight,omitempty"`
}

// Magnitude represents a row in the magnitudes table.
type Magnitude struct {
	PublicID     string  `json:"public_id"`
	Type         string  `json:"type,omitempty"`
	Value        float64 `json:"value"`
	StationCount *int    `json:"station_count,omitempty"`
}

// Stream is the waveform stream a pick or amplitude was measured on.
type Stream struct {
	Network  string `json:"network"`
	Station  string `json:"station"`
	Location string `json:"location"`
	Channel  string `json:"channel"`
}

// Pick represents a row in the picks table.
type Pick struct {
	ID               int64  `json:"id"`
	DocumentID       int64  `json:"document_id"`
	PublicID         string `json:"public_id"`
	Time             string `json:"time"`
	Stream           Stream `json:"stream"`
	PhaseHint        string `json:"phase_hint,omitempty"`
	EvaluationMode   string `json:"evaluation_mode,omitempty"`
	EvaluationStatus string `json:"evaluation_status,omitempty"`
}

// Amplitude represents a row in the amplitudes table.
type Amplitude struct {
	ID         int64    `json:"id"`
	DocumentID int64    `json:"document_id"`
	PublicID   string   `json:"public_id"`
	PickID     string   `json:"pick_id,omitempty"`
	Type       string   `json:"type,omitempty"`
	Value      *float64 `json:"value,omitempty"`
	SNR        *float64 `json:"snr,omitempty"`
	Stream     Stream   `json:"stream"`
}

// FocalMechanism represents a row in the focal_mechanisms table. Nodal
// plane angles are nil when the solution lacks that plane.
type FocalMechanism struct {
	ID                 int64    `json:"id"`
	DocumentID         int64    `json:"document_id"`
	PublicID           string   `json:"public_id"`
	TriggeringOriginID string   `json:"triggering_origin_id,omitempty"`
	EvaluationMode     string   `json:"evaluation_mode,omitempty"`
	Strike1            *float64 `json:"strike1,omitempty"`
	Dip1               *float64 `json:"dip1,omitempty"`
	Rake1              *float64 `json:"rake1,omitempty"`
	Strike2            *float64 `json:"strike2,omitempty"`
	Dip2               *float64 `json:"dip2,omitempty"`
	Rake2              *float64 `json:"rake2,omitempty"`
}

// Catalog is one batch of rows written by InsertCatalog.
type Catalog struct {
	Events          []Event
	Origins         []Origin
	Picks           []Pick
	Amplitudes      []Amplitude
	FocalMechanisms []FocalMechanism
}

// EventSummary is an event joined with its preferred origin and magnitude.
type EventSummary struct {
	Event
	OriginTime    string   `json:"origin_time,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Depth         *float64 `json:"depth,omitempty"`
	Magnitude     *float64 `json:"magnitude,omitempty"`
	MagnitudeType string   `json:"magnitude_type,omitempty"`
}

// NearbyOrigin is a result of NearestOrigins.
type NearbyOrigin struct {
	Origin
	EventID    string  `json:"event_id,omitempty"`
	DistanceKm float64 `json:"distance_km"`
}

// Store wraps the SQLite database for all catalogue persistence.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at the given path and
// initialises the schema including the sqlite-vec hypocentre index.
func New(dbPath string) (*Store, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	// Connection pool settings for SQLite.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}

	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// --- Document operations ---

// UpsertDocument inserts or updates a document record. Returns the document ID.
func (s *Store) UpsertDocument(ctx context.Context, doc Document) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO documents (path, filename, format, content_hash, ingest_id, status)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			filename = excluded.filename,
			format = excluded.format,
			content_hash = excluded.content_hash,
			ingest_id = excluded.ingest_id,
			status = excluded.status,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`, doc.Path, doc.Filename, doc.Format, doc.ContentHash, doc.IngestID, doc.Status).Scan(&id)
	return id, err
}

const documentColumns = `id, path, filename, format, content_hash, ingest_id, status, created_at, updated_at`

func scanDocument(row interface{ Scan(...any) error }) (*Document, error) {
	doc := &Document{}
	var ingestID sql.NullString
	if err := row.Scan(&doc.ID, &doc.Path, &doc.Filename, &doc.Format,
		&doc.ContentHash, &ingestID, &doc.Status, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}
	doc.IngestID = ingestID.String
	return doc, nil
}

// GetDocumentByPath retrieves a document by its file path.
func (s *Store) GetDocumentByPath(ctx context.Context, path string) (*Document, error) {
	return scanDocument(s.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE path = ?", path))
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, id int64) (*Document, error) {
	return scanDocument(s.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = ?", id))
}

// ListDocuments returns all documents, newest first.
func (s *Store) ListDocuments(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+documentColumns+" FROM documents ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

// UpdateDocumentStatus updates just the status field.
func (s *Store) UpdateDocumentStatus(ctx context.Context, id int64, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE documents SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, id)
	return err
}

// DeleteDocument removes a document and every object it delivered.
func (s *Store) DeleteDocument(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := deleteDocumentData(ctx, tx, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
		return err
	})
}

// DeleteDocumentData removes every object a document delivered but keeps
// the document row (used for re-ingestion).
func (s *Store) DeleteDocumentData(ctx context.Context, docID int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return deleteDocumentData(ctx, tx, docID)
	})
}

func deleteDocumentData(ctx context.Context, tx *sql.Tx, docID int64) error {
	// vec0 tables take no part in foreign keys.
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM vec_origins WHERE origin_id IN (
			SELECT id FROM origins WHERE document_id = ?
		)`, docID); err != nil {
		return err
	}
	for _, table := range []string{"events", "origins", "picks", "amplitudes", "focal_mechanisms"} {
		// Arrivals and magnitudes cascade from origins.
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE document_id = ?", docID); err != nil {
			return fmt.Errorf("deleting %s: %w", table, err)
		}
	}
	return nil
}

// --- Catalogue writes ---

// InsertCatalog writes all rows of c for document docID in one
// transaction. Rows whose publicID already exists are replaced.
func (s *Store) InsertCatalog(ctx context.Context, docID int64, c Catalog) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, e := range c.Events {
			if err := upsertEvent(ctx, tx, docID, e); err != nil {
				return fmt.Errorf("event %s: %w", e.PublicID, err)
			}
		}
		for _, o := range c.Origins {
			if err := upsertOrigin(ctx, tx, docID, o); err != nil {
				return fmt.Errorf("origin %s: %w", o.PublicID, err)
			}
		}
		for _, p := range c.Picks {
			if err := upsertPick(ctx, tx, docID, p); err != nil {
				return fmt.Errorf("pick %s: %w", p.PublicID, err)
			}
		}
		for _, a := range c.Amplitudes {
			if err := upsertAmplitude(ctx, tx, docID, a); err != nil {
				return fmt.Errorf("amplitude %s: %w", a.PublicID, err)
			}
		}
		for _, fm := range c.FocalMechanisms {
			if err := upsertFocalMechanism(ctx, tx, docID, fm); err != nil {
				return fmt.Errorf("focal mechanism %s: %w", fm.PublicID, err)
			}
		}
		return nil
	})
}

func upsertEvent(ctx context.Context, tx *sql.Tx, docID int64, e Event) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO events (document_id, public_id, preferred_origin_id, preferred_magnitude_id,
			preferred_focal_mechanism_id, type, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(public_id) DO UPDATE SET
			document_id = excluded.document_id,
			preferred_origin_id = excluded.preferred_origin_id,
			preferred_magnitude_id = excluded.preferred_magnitude_id,
			preferred_focal_mechanism_id = excluded.preferred_focal_mechanism_id,
			type = excluded.type,
			description = excluded.description
	`, docID, e.PublicID, e.PreferredOriginID, e.PreferredMagnitudeID,
		e.PreferredFocalMechanismID, e.Type, e.Description)
	return err
}

func upsertOrigin(ctx context.Context, tx *sql.Tx, docID int64, o Origin) error {
	var id int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO origins (document_id, public_id, time, latitude, longitude, depth,
			method_id, evaluation_mode, evaluation_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(public_id) DO UPDATE SET
			document_id = excluded.document_id,
			time = excluded.time,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			depth = excluded.depth,
			method_id = excluded.method_id,
			evaluation_mode = excluded.evaluation_mode,
			evaluation_status = excluded.evaluation_status
		RETURNING id
	`, docID, o.PublicID, o.Time, o.Latitude, o.Longitude, o.Depth,
		o.MethodID, o.EvaluationMode, o.EvaluationStatus).Scan(&id)
	if err != nil {
		return err
	}

	for _, q := range []string{
		"DELETE FROM arrivals WHERE origin_id = ?",
		"DELETE FROM magnitudes WHERE origin_id = ?",
		"DELETE FROM vec_origins WHERE origin_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}

	for i, a := range o.Arrivals {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO arrivals (origin_id, position, pick_id, phase, distance, azimuth, time_residual, weight)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, id, i, a.PickID, a.Phase, a.Distance, a.Azimuth, a.TimeResidual, a.Weight); err != nil {
			return fmt.Errorf("arrival %d: %w", i, err)
		}
	}
	for _, m := range o.Magnitudes {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO magnitudes (origin_id, public_id, type, value, station_count)
			VALUES (?, ?, ?, ?, ?)
		`, id, m.PublicID, m.Type, m.Value, m.StationCount); err != nil {
			return fmt.Errorf("magnitude %s: %w", m.PublicID, err)
		}
	}

	depth := 0.0
	if o.Depth != nil {
		depth = *o.Depth
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO vec_origins (origin_id, hypocenter) VALUES (?, ?)",
		id, serializeFloat32(Hypocenter(o.Latitude, o.Longitude, depth)))
	return err
}

func upsertPick(ctx context.Context, tx *sql.Tx, docID int64, p Pick) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO picks (document_id, public_id, time, network, station, location, channel,
			phase_hint, evaluation_mode, evaluation_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(public_id) DO UPDATE SET
			document_id = excluded.document_id,
			time = excluded.time,
			network = excluded.network,
			station = excluded.station,
			location = excluded.location,
			channel = excluded.channel,
			phase_hint = excluded.phase_hint,
			evaluation_mode = excluded.evaluation_mode,
			evaluation_status = excluded.evaluation_status
	`, docID, p.PublicID, p.Time, p.Stream.Network, p.Stream.Station, p.Stream.Location,
		p.Stream.Channel, p.PhaseHint, p.EvaluationMode, p.EvaluationStatus)
	return err
}

func upsertAmplitude(ctx context.Context, tx *sql.Tx, docID int64, a Amplitude) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO amplitudes (document_id, public_id, pick_id, type, value, snr,
			network, station, location, channel)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(public_id) DO UPDATE SET
			document_id = excluded.document_id,
			pick_id = excluded.pick_id,
			type = excluded.type,
			value = excluded.value,
			snr = excluded.snr,
			network = excluded.network,
			station = excluded.station,
			location = excluded.location,
			channel = excluded.channel
	`, docID, a.PublicID, a.PickID, a.Type, a.Value, a.SNR,
		a.Stream.Network, a.Stream.Station, a.Stream.Location, a.Stream.Channel)
	return err
}

func upsertFocalMechanism(ctx context.Context, tx *sql.Tx, docID int64, fm FocalMechanism) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO focal_mechanisms (document_id, public_id, triggering_origin_id, evaluation_mode,
			strike1, dip1, rake1, strike2, dip2, rake2)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(public_id) DO UPDATE SET
			document_id = excluded.document_id,
			triggering_origin_id = excluded.triggering_origin_id,
			evaluation_mode = excluded.evaluation_mode,
			strike1 = excluded.strike1, dip1 = excluded.dip1, rake1 = excluded.rake1,
			strike2 = excluded.strike2, dip2 = excluded.dip2, rake2 = excluded.rake2
	`, docID, fm.PublicID, fm.TriggeringOriginID, fm.EvaluationMode,
		fm.Strike1, fm.Dip1, fm.Rake1, fm.Strike2, fm.Dip2, fm.Rake2)
	return err
}

// --- Catalogue reads ---

// ListEvents returns up to limit events with their preferred origin and
// magnitude, latest origin time first. Events whose preferred origin is
// not stored sort last.
func (s *Store) ListEvents(ctx context.Context, limit int) ([]EventSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.document_id, e.public_id, e.preferred_origin_id, e.preferred_magnitude_id,
			e.preferred_focal_mechanism_id, e.type, e.description,
			o.time, o.latitude, o.longitude, o.depth,
			m.value, m.type
		FROM events e
		LEFT JOIN origins o ON o.public_id = e.preferred_origin_id
		LEFT JOIN magnitudes m ON m.origin_id = o.id AND m.public_id = e.preferred_magnitude_id
		ORDER BY o.time IS NULL, o.time DESC, e.public_id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EventSummary
	for rows.Next() {
		var es EventSummary
		var prefOrigin, prefMag, prefFM, typ, desc, otime, magType sql.NullString
		var lat, lon, depth, mag sql.NullFloat64
		if err := rows.Scan(&es.ID, &es.DocumentID, &es.PublicID, &prefOrigin, &prefMag,
			&prefFM, &typ, &desc, &otime, &lat, &lon, &depth, &mag, &magType); err != nil {
			return nil, err
		}
		es.PreferredOriginID = prefOrigin.String
		es.PreferredMagnitudeID = prefMag.String
		es.PreferredFocalMechanismID = prefFM.String
		es.Type = typ.String
		es.Description = desc.String
		es.OriginTime = otime.String
		es.Latitude = nullFloat(lat)
		es.Longitude = nullFloat(lon)
		es.Depth = nullFloat(depth)
		es.Magnitude = nullFloat(mag)
		es.MagnitudeType = magType.String
		out = append(out, es)
	}
	return out, rows.Err()
}

// GetEvent retrieves an event by publicID. Returns sql.ErrNoRows when absent.
func (s *Store) GetEvent(ctx context.Context, publicID string) (*Event, error) {
	e := &Event{}
	var prefOrigin, prefMag, prefFM, typ, desc sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, document_id, public_id, preferred_origin_id, preferred_magnitude_id,
			preferred_focal_mechanism_id, type, description
		FROM events WHERE public_id = ?
	`, publicID).Scan(&e.ID, &e.DocumentID, &e.PublicID, &prefOrigin, &prefMag, &prefFM, &typ, &desc)
	if err != nil {
		return nil, err
	}
	e.PreferredOriginID = prefOrigin.String
	e.PreferredMagnitudeID = prefMag.String
	e.PreferredFocalMechanismID = prefFM.String
	e.Type = typ.String
	e.Description = desc.String
	return e, nil
}

const originColumns = `id, document_id, public_id, time, latitude, longitude, depth,
	method_id, evaluation_mode, evaluation_status`

func scanOrigin(row interface{ Scan(...any) error }, extra ...any) (*Origin, error) {
	o := &Origin{}
	var depth sql.NullFloat64
	var method, mode, status sql.NullString
	dest := append([]any{&o.ID, &o.DocumentID, &o.PublicID, &o.Time, &o.Latitude, &o.Longitude,
		&depth, &method, &mode, &status}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	o.Depth = nullFloat(depth)
	o.MethodID = method.String
	o.EvaluationMode = mode.String
	o.EvaluationStatus = status.String
	return o, nil
}

// GetOrigin retrieves an origin with its arrivals (in arrival order) and
// magnitudes. Returns sql.ErrNoRows when absent.
func (s *Store) GetOrigin(ctx context.Context, publicID string) (*Origin, error) {
	o, err := scanOrigin(s.db.QueryRowContext(ctx,
		"SELECT "+originColumns+" FROM origins WHERE public_id = ?", publicID))
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT pick_id, phase, distance, azimuth, time_residual, weight
		FROM arrivals WHERE origin_id = ? ORDER BY position
	`, o.ID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var a Arrival
		var phase sql.NullString
		var dist, az, res, w sql.NullFloat64
		if err := rows.Scan(&a.PickID, &phase, &dist, &az, &res, &w); err != nil {
			rows.Close()
			return nil, err
		}
		a.Phase = phase.String
		a.Distance, a.Azimuth, a.TimeResidual, a.Weight = nullFloat(dist), nullFloat(az), nullFloat(res), nullFloat(w)
		o.Arrivals = append(o.Arrivals, a)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `
		SELECT public_id, type, value, station_count
		FROM magnitudes WHERE origin_id = ? ORDER BY public_id
	`, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var m Magnitude
		var typ sql.NullString
		var count sql.NullInt64
		if err := rows.Scan(&m.PublicID, &typ, &m.Value, &count); err != nil {
			return nil, err
		}
		m.Type = typ.String
		if count.Valid {
			n := int(count.Int64)
			m.StationCount = &n
		}
		o.Magnitudes = append(o.Magnitudes, m)
	}
	return o, rows.Err()
}

const pickColumns = `p.id, p.document_id, p.public_id, p.time, p.network, p.station, p.location, p.channel,
	p.phase_hint, p.evaluation_mode, p.evaluation_status`

// PicksForOrigin returns the stored picks referenced by the arrivals of
// the given origin, in arrival order. Arrivals without a stored pick are
// skipped.
func (s *Store) PicksForOrigin(ctx context.Context, originPublicID string) ([]Pick, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+pickColumns+`
		FROM arrivals a
		JOIN origins o ON o.id = a.origin_id
		JOIN picks p ON p.public_id = a.pick_id
		WHERE o.public_id = ?
		ORDER BY a.position
	`, originPublicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var picks []Pick
	for rows.Next() {
		var p Pick
		var hint, mode, status sql.NullString
		if err := rows.Scan(&p.ID, &p.DocumentID, &p.PublicID, &p.Time,
			&p.Stream.Network, &p.Stream.Station, &p.Stream.Location, &p.Stream.Channel,
			&hint, &mode, &status); err != nil {
			return nil, err
		}
		p.PhaseHint, p.EvaluationMode, p.EvaluationStatus = hint.String, mode.String, status.String
		picks = append(picks, p)
	}
	return picks, rows.Err()
}

// AmplitudesForPick returns the amplitudes measured on the given pick.
func (s *Store) AmplitudesForPick(ctx context.Context, pickPublicID string) ([]Amplitude, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, public_id, pick_id, type, value, snr, network, station, location, channel
		FROM amplitudes WHERE pick_id = ? ORDER BY public_id
	`, pickPublicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var amps []Amplitude
	for rows.Next() {
		var a Amplitude
		var pickID, typ sql.NullString
		var value, snr sql.NullFloat64
		if err := rows.Scan(&a.ID, &a.DocumentID, &a.PublicID, &pickID, &typ, &value, &snr,
			&a.Stream.Network, &a.Stream.Station, &a.Stream.Location, &a.Stream.Channel); err != nil {
			return nil, err
		}
		a.PickID, a.Type = pickID.String, typ.String
		a.Value, a.SNR = nullFloat(value), nullFloat(snr)
		amps = append(amps, a)
	}
	return amps, rows.Err()
}

// NearestOrigins performs a KNN search over stored hypocentres and returns
// the k origins closest to the given point, nearest first. Distances are
// straight-line kilometres through the earth.
func (s *Store) NearestOrigins(ctx context.Context, lat, lon, depthKm float64, k int) ([]NearbyOrigin, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT o.id, o.document_id, o.public_id, o.time, o.latitude, o.longitude, o.depth,
			o.method_id, o.evaluation_mode, o.evaluation_status,
			v.distance,
			(SELECT e.public_id FROM events e WHERE e.preferred_origin_id = o.public_id
				ORDER BY e.public_id LIMIT 1)
		FROM vec_origins v
		JOIN origins o ON o.id = v.origin_id
		WHERE v.hypocenter MATCH ? AND k = ?
		ORDER BY v.distance
	`, serializeFloat32(Hypocenter(lat, lon, depthKm)), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []NearbyOrigin
	for rows.Next() {
		var n NearbyOrigin
		var eventID sql.NullString
		o, err := scanOrigin(rows, &n.DistanceKm, &eventID)
		if err != nil {
			return nil, err
		}
		n.Origin = *o
		n.EventID = eventID.String
		out = append(out, n)
	}
	return out, rows.Err()
}

// DBStats holds row counts for the catalogue tables.
type DBStats struct {
	Documents       int `json:"documents"`
	Events          int `json:"events"`
	Origins         int `json:"origins"`
	Arrivals        int `json:"arrivals"`
	Picks           int `json:"picks"`
	Amplitudes      int `json:"amplitudes"`
	FocalMechanisms int `json:"focal_mechanisms"`
	Hypocenters     int `json:"hypocenters"`
}

// DBStats returns row counts for every catalogue table.
func (s *Store) DBStats(ctx context.Context) (*DBStats, error) {
	stats := &DBStats{}
	queries := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM documents", &stats.Documents},
		{"SELECT COUNT(*) FROM events", &stats.Events},
		{"SELECT COUNT(*) FROM origins", &stats.Origins},
		{"SELECT COUNT(*) FROM arrivals", &stats.Arrivals},
		{"SELECT COUNT(*) FROM picks", &stats.Picks},
		{"SELECT COUNT(*) FROM amplitudes", &stats.Amplitudes},
		{"SELECT COUNT(*) FROM focal_mechanisms", &stats.FocalMechanisms},
		{"SELECT COUNT(*) FROM vec_origins", &stats.Hypocenters},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("counting %s: %w", q.query, err)
		}
	}
	return stats, nil
}

// --- helpers ---

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Hypocenter converts geographic coordinates and depth to earth-centred
// cartesian kilometres on a spherical earth.
func Hypocenter(lat, lon, depthKm float64) []float32 {
	r := EarthRadiusKm - depthKm
	phi := lat * math.Pi / 180
	lambda := lon * math.Pi / 180
	return []float32{
		float32(r * math.Cos(phi) * math.Cos(lambda)),
		float32(r * math.Cos(phi) * math.Sin(lambda)),
		float32(r * math.Sin(phi)),
	}
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// serializeFloat32 converts a float32 slice to little-endian bytes for sqlite-vec.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
