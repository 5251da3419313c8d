// Package db persists scored submissions and per-device state in SQLite.
// The scoring core never touches this package; the API layer reads the
// previous fix here, runs the pipeline, and hands the result back for
// storage.
package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB

	path string
}

// Schema is the baseline schema, kept in sync with migrations/. Tests and
// fresh databases apply it directly; deployed databases evolve through
// golang-migrate.
const Schema = `
	CREATE TABLE IF NOT EXISTS submissions (
		id                TEXT PRIMARY KEY,
		device_id         TEXT NOT NULL,
		latitude          DOUBLE NOT NULL,
		longitude         DOUBLE NOT NULL,
		speed_kmh         DOUBLE NOT NULL,
		heading_deg       DOUBLE,
		sample_count      BIGINT NOT NULL,
		state             TEXT NOT NULL,
		eligible          INTEGER NOT NULL,
		roughness         DOUBLE,
		vdv               DOUBLE,
		crest_factor      DOUBLE,
		distance_m        DOUBLE,
		recorded_at       TIMESTAMP,
		created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_submissions_device_created
		ON submissions(device_id, created_at);
	CREATE TABLE IF NOT EXISTS devices (
		device_id         TEXT PRIMARY KEY,
		nickname          TEXT,
		last_lat          DOUBLE,
		last_lon          DOUBLE,
		last_seen         TIMESTAMP,
		created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
`

func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{DB: db, path: path}, nil
}

// Submission is one stored scoring result plus its submission context.
// Nullable metric columns stay nil for skipped or unscored rows: a NULL
// roughness is attributable through the state column.
type Submission struct {
	ID          string     `json:"id"`
	DeviceID    string     `json:"device_id"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	SpeedKMH    float64    `json:"speed_kmh"`
	HeadingDeg  *float64   `json:"heading_deg"`
	SampleCount int        `json:"sample_count"`
	State       string     `json:"state"`
	Eligible    bool       `json:"eligible"`
	Roughness   *float64   `json:"roughness"`
	VDV         *float64   `json:"vdv"`
	CrestFactor *float64   `json:"crest_factor"`
	DistanceM   *float64   `json:"distance_m"`
	RecordedAt  time.Time  `json:"recorded_at"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// Device is a known submitting client with its most recent fix.
type Device struct {
	DeviceID string     `json:"device_id"`
	Nickname *string    `json:"nickname"`
	LastLat  *float64   `json:"last_lat"`
	LastLon  *float64   `json:"last_lon"`
	LastSeen *time.Time `json:"last_seen"`
}

// RecordSubmission inserts one scored (or skipped) submission.
func (db *DB) RecordSubmission(s *Submission) error {
	eligible := 0
	if s.Eligible {
		eligible = 1
	}
	_, err := db.Exec(`
		INSERT INTO submissions (
			id, device_id, latitude, longitude, speed_kmh, heading_deg,
			sample_count, state, eligible, roughness, vdv, crest_factor,
			distance_m, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		s.ID, s.DeviceID, s.Latitude, s.Longitude, s.SpeedKMH, s.HeadingDeg,
		s.SampleCount, s.State, eligible, s.Roughness, s.VDV, s.CrestFactor,
		s.DistanceM, s.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record submission %s: %w", s.ID, err)
	}
	return nil
}

// LastFix returns the device's most recent fix, or nil lat/lon pointers if
// the device is unknown or has no fix yet.
func (db *DB) LastFix(deviceID string) (lat, lon *float64, err error) {
	row := db.QueryRow(`SELECT last_lat, last_lon FROM devices WHERE device_id = ?`, deviceID)
	err = row.Scan(&lat, &lon)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read last fix for %s: %w", deviceID, err)
	}
	return lat, lon, nil
}

// TouchDeviceFix upserts the device row with its newest fix.
func (db *DB) TouchDeviceFix(deviceID string, lat, lon float64, seen time.Time) error {
	_, err := db.Exec(`
		INSERT INTO devices (device_id, last_lat, last_lon, last_seen)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(device_id) DO UPDATE SET
			last_lat = excluded.last_lat,
			last_lon = excluded.last_lon,
			last_seen = excluded.last_seen
	`, deviceID, lat, lon, seen)
	if err != nil {
		return fmt.Errorf("failed to update device %s: %w", deviceID, err)
	}
	return nil
}

// SetNickname stores a display name for the device, creating the row if the
// device has never submitted.
func (db *DB) SetNickname(deviceID, nickname string) error {
	_, err := db.Exec(`
		INSERT INTO devices (device_id, nickname)
		VALUES (?, ?)
		ON CONFLICT(device_id) DO UPDATE SET nickname = excluded.nickname
	`, deviceID, nickname)
	if err != nil {
		return fmt.Errorf("failed to set nickname for %s: %w", deviceID, err)
	}
	return nil
}

// ListDevices returns all known devices ordered by most recently seen.
func (db *DB) ListDevices() ([]Device, error) {
	rows, err := db.Query(`
		SELECT device_id, nickname, last_lat, last_lon, last_seen
		FROM devices
		ORDER BY last_seen DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		var d Device
		if err := rows.Scan(&d.DeviceID, &d.Nickname, &d.LastLat, &d.LastLon, &d.LastSeen); err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

// RecentSubmissions returns up to limit submissions, newest first,
// optionally filtered by device.
func (db *DB) RecentSubmissions(deviceID string, limit int) ([]Submission, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	query := `
		SELECT id, device_id, latitude, longitude, speed_kmh, heading_deg,
			sample_count, state, eligible, roughness, vdv, crest_factor,
			distance_m, recorded_at, created_at
		FROM submissions
	`
	args := []interface{}{}
	if deviceID != "" {
		query += ` WHERE device_id = ?`
		args = append(args, deviceID)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	return db.querySubmissions(query, args...)
}

// Track returns a device's submissions in capture order for export and
// charting.
func (db *DB) Track(deviceID string) ([]Submission, error) {
	return db.querySubmissions(`
		SELECT id, device_id, latitude, longitude, speed_kmh, heading_deg,
			sample_count, state, eligible, roughness, vdv, crest_factor,
			distance_m, recorded_at, created_at
		FROM submissions
		WHERE device_id = ?
		ORDER BY recorded_at ASC, created_at ASC
	`, deviceID)
}

func (db *DB) querySubmissions(query string, args ...interface{}) ([]Submission, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var s Submission
		var eligible int
		if err := rows.Scan(
			&s.ID, &s.DeviceID, &s.Latitude, &s.Longitude, &s.SpeedKMH, &s.HeadingDeg,
			&s.SampleCount, &s.State, &eligible, &s.Roughness, &s.VDV, &s.CrestFactor,
			&s.DistanceM, &s.RecordedAt, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		s.Eligible = eligible != 0
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
