// Package profile persists named calculation profiles in PostgreSQL.
package profile

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver.
	"github.com/rs/zerolog/log"

	"go.ngs.io/praytimes/internal/domain"
	"go.ngs.io/praytimes/internal/usecase"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresStore implements usecase.ProfileStore on a profiles table.
type PostgresStore struct {
	db *sqlx.DB
}

var _ usecase.ProfileStore = (*PostgresStore)(nil)

type profileRow struct {
	Name       string    `db:"name"`
	Latitude   float64   `db:"latitude"`
	Longitude  float64   `db:"longitude"`
	Elevation  float64   `db:"elevation"`
	Method     string    `db:"method"`
	Parameters string    `db:"parameters"` // JSONB, kept as text for lib/pq.
	Tune       string    `db:"tune"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r profileRow) profile() (domain.Profile, error) {
	p := domain.Profile{
		Name: r.Name,
		Location: domain.Location{
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Elevation: r.Elevation,
		},
		Method:    r.Method,
		UpdatedAt: r.UpdatedAt.UTC(),
	}
	if err := json.Unmarshal([]byte(r.Parameters), &p.Parameters); err != nil {
		return p, fmt.Errorf("profile %s: bad parameters: %w", r.Name, err)
	}
	if err := json.Unmarshal([]byte(r.Tune), &p.Tune); err != nil {
		return p, fmt.Errorf("profile %s: bad tune: %w", r.Name, err)
	}
	return p, nil
}

func rowFromProfile(p domain.Profile) (profileRow, error) {
	params, err := json.Marshal(p.Parameters)
	if err != nil {
		return profileRow{}, err
	}
	tune, err := json.Marshal(p.Tune)
	if err != nil {
		return profileRow{}, err
	}
	return profileRow{
		Name:       p.Name,
		Latitude:   p.Location.Latitude,
		Longitude:  p.Location.Longitude,
		Elevation:  p.Location.Elevation,
		Method:     p.Method,
		Parameters: string(params),
		Tune:       string(tune),
		UpdatedAt:  p.UpdatedAt,
	}, nil
}

// Connect opens a PostgreSQL connection, retrying while the database
// comes up.
func Connect(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	const maxRetries = 10
	const retryInterval = 2 * time.Second
	var err error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		var db *sqlx.DB
		db, err = sqlx.ConnectContext(ctx, "postgres", databaseURL)
		if err == nil {
			log.Info().Msg("connected to database")
			return &PostgresStore{db: db}, nil
		}

		log.Error().Err(err).
			Int("attempt", attempt).
			Msgf("failed to connect to database, retrying in %s", retryInterval)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}

	return nil, fmt.Errorf("could not connect to database after %d attempts: %w", maxRetries, err)
}

// NewPostgresStore wraps an open connection.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// RunMigrations executes the embedded *.up.sql files in name order.
func (s *PostgresStore) RunMigrations(ctx context.Context) error {
	files, err := fs.Glob(migrations, "migrations/*.up.sql")
	if err != nil {
		return fmt.Errorf("failed to glob migrations: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		stmt, err := migrations.ReadFile(file)
		if err != nil {
			return fmt.Errorf("could not read migration %q: %w", file, err)
		}
		if len(stmt) == 0 {
			continue
		}
		if _, err := s.db.ExecContext(ctx, string(stmt)); err != nil {
			return fmt.Errorf("error executing migration %q: %w", file, err)
		}
		log.Debug().Str("migration", file).Msg("applied migration")
	}
	return nil
}

// List returns every profile ordered by name.
func (s *PostgresStore) List(ctx context.Context) ([]domain.Profile, error) {
	var rows []profileRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM profiles ORDER BY name`); err != nil {
		return nil, err
	}
	out := make([]domain.Profile, 0, len(rows))
	for _, r := range rows {
		p, err := r.profile()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Get returns the profile with the given name.
func (s *PostgresStore) Get(ctx context.Context, name string) (*domain.Profile, error) {
	var r profileRow
	err := s.db.GetContext(ctx, &r, `SELECT * FROM profiles WHERE name = $1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	p, err := r.profile()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Put inserts or replaces a profile.
func (s *PostgresStore) Put(ctx context.Context, p domain.Profile) error {
	r, err := rowFromProfile(p)
	if err != nil {
		return err
	}
	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO profiles (name, latitude, longitude, elevation, method, parameters, tune, updated_at)
		VALUES (:name, :latitude, :longitude, :elevation, :method, :parameters, :tune, :updated_at)
		ON CONFLICT (name) DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			elevation = EXCLUDED.elevation,
			method = EXCLUDED.method,
			parameters = EXCLUDED.parameters,
			tune = EXCLUDED.tune,
			updated_at = EXCLUDED.updated_at`, r)
	return err
}

// Delete removes a profile.
func (s *PostgresStore) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE name = $1`, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
