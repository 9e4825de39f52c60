package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sonicmood/sonicmood/internal/models"
)

// ResultRepository persists the latest [models.SyncResult]: the weather
// snapshot row and the ordered track rows that belong to it, keyed by the
// result's request id so the pair survives a restart intact.
type ResultRepository struct {
	db *sql.DB
}

// NewResultRepository creates a new [ResultRepository] with the given database connection
func NewResultRepository(db *sql.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Save replaces the stored result with the given one in a single
// transaction. Tracks from any previous result are removed first.
func (r *ResultRepository) Save(result *models.SyncResult) error {
	if err := result.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	snapshotQuery := `
		INSERT INTO snapshots (id, request_id, city, country, condition, icon_code, temperature, is_day, fetched_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			request_id = excluded.request_id,
			city = excluded.city,
			country = excluded.country,
			condition = excluded.condition,
			icon_code = excluded.icon_code,
			temperature = excluded.temperature,
			is_day = excluded.is_day,
			fetched_at = excluded.fetched_at
	`

	w := result.Weather
	_, err = tx.Exec(snapshotQuery, result.ID, w.City, w.Country, w.Condition, w.IconCode, w.Temperature, w.IsDay, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM tracks"); err != nil {
		return fmt.Errorf("failed to clear tracks: %w", err)
	}

	trackQuery := `
		INSERT INTO tracks (position, request_id, track_id, name, artist, album_image_url, uri, preview_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	for i, t := range result.Tracks {
		_, err := tx.Exec(trackQuery, i, result.ID, t.ID, t.Name, t.PrimaryArtist(), t.CoverURL(), t.URI, t.PreviewURL)
		if err != nil {
			return fmt.Errorf("failed to save track %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit result: %w", err)
	}

	return nil
}

// Load returns the stored result, or nil when none has been saved yet.
func (r *ResultRepository) Load() (*models.SyncResult, error) {
	var (
		result models.SyncResult
		isDay  int
	)

	query := `
		SELECT request_id, city, country, condition, icon_code, temperature, is_day
		FROM snapshots WHERE id = 1
	`

	err := r.db.QueryRow(query).Scan(
		&result.ID,
		&result.Weather.City,
		&result.Weather.Country,
		&result.Weather.Condition,
		&result.Weather.IconCode,
		&result.Weather.Temperature,
		&isDay,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	result.Weather.IsDay = isDay != 0

	rows, err := r.db.Query(`
		SELECT track_id, name, artist, album_image_url, uri, preview_url
		FROM tracks WHERE request_id = ? ORDER BY position
	`, result.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			track    models.Track
			artist   string
			coverURL string
		)
		if err := rows.Scan(&track.ID, &track.Name, &artist, &coverURL, &track.URI, &track.PreviewURL); err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		if artist != "" {
			track.Artists = []models.Artist{{Name: artist}}
		}
		if coverURL != "" {
			track.Album.Images = []models.Image{{URL: coverURL}}
		}
		result.Tracks = append(result.Tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tracks: %w", err)
	}

	return &result, nil
}

// Clear removes the stored result, if any.
func (r *ResultRepository) Clear() error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM tracks"); err != nil {
		return fmt.Errorf("failed to clear tracks: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM snapshots"); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	return tx.Commit()
}
