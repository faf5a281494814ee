package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stumbleable/jobs/internal/core"
)

// DiscoveryRepo reads digest content from the discovery index. The jobs
// service only reads this table; the crawler and moderation services own it.
type DiscoveryRepo struct {
	DB *sql.DB
}

// NewDiscoveryRepo creates a new DiscoveryRepo with the given database connection.
func NewDiscoveryRepo(db *sql.DB) *DiscoveryRepo {
	return &DiscoveryRepo{DB: db}
}

// ListTrending returns the most-stumbled active discoveries since the cutoff.
func (r *DiscoveryRepo) ListTrending(
	ctx context.Context,
	since time.Time,
	limit int,
) ([]core.Discovery, error) {
	query := `
		SELECT title, url, domain
		FROM discoveries
		WHERE status = 'active' AND last_stumbled_at >= $1
		ORDER BY stumble_count DESC, last_stumbled_at DESC
		LIMIT $2
	`
	return r.queryDiscoveries(ctx, query, since.UTC(), limit)
}

// ListNewSince returns recently indexed active discoveries, newest first.
func (r *DiscoveryRepo) ListNewSince(
	ctx context.Context,
	since time.Time,
	limit int,
) ([]core.Discovery, error) {
	query := `
		SELECT title, url, domain
		FROM discoveries
		WHERE status = 'active' AND created_at >= $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	return r.queryDiscoveries(ctx, query, since.UTC(), limit)
}

func (r *DiscoveryRepo) queryDiscoveries(
	ctx context.Context,
	query string,
	args ...any,
) ([]core.Discovery, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query discoveries: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var discoveries []core.Discovery
	for rows.Next() {
		var (
			d      core.Discovery
			domain sql.NullString
		)
		if scanErr := rows.Scan(&d.Title, &d.URL, &domain); scanErr != nil {
			return nil, fmt.Errorf("scan discovery: %w", scanErr)
		}
		d.Domain = domain.String
		discoveries = append(discoveries, d)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate discoveries: %w", rowsErr)
	}

	return discoveries, nil
}
