package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/stumbleable/jobs/internal/core"
	"github.com/stumbleable/jobs/internal/domain/model"
	apperrors "github.com/stumbleable/jobs/internal/errors"
)

// TrustRepo provides database operations for stored trust scores and the
// component inputs the recompute job reads.
type TrustRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewTrustRepo creates a new TrustRepo with the given database connection.
func NewTrustRepo(db *sql.DB) *TrustRepo {
	return &TrustRepo{
		DB:           db,
		timeProvider: &RealTimeProvider{},
	}
}

// NewTrustRepoWithTimeProvider creates a TrustRepo with a custom TimeProvider.
func NewTrustRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *TrustRepo {
	return &TrustRepo{DB: db, timeProvider: tp}
}

const trustScoreColumns = `
  id,
  scope,
  subject_key,
  score,
  components,
  admin_override,
  computed_at,
  updated_at
`

// ListSubjects returns every scoring target with its current component
// inputs from trust_subjects. Upstream services keep that table fresh.
func (r *TrustRepo) ListSubjects(ctx context.Context) ([]core.TrustSubject, error) {
	query := `
		SELECT scope, subject_key, components
		FROM trust_subjects
		ORDER BY scope, subject_key
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list trust subjects: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var subjects []core.TrustSubject
	for rows.Next() {
		subject, scanErr := scanTrustSubject(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		subjects = append(subjects, *subject)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate trust subjects: %w", rowsErr)
	}

	return subjects, nil
}

// SubjectByKey returns one scoring target, or NotFound.
func (r *TrustRepo) SubjectByKey(
	ctx context.Context,
	scope model.TrustScope,
	key string,
) (*core.TrustSubject, error) {
	query := `
		SELECT scope, subject_key, components
		FROM trust_subjects
		WHERE scope = $1 AND subject_key = $2
	`
	subject, err := scanTrustSubject(r.DB.QueryRowContext(ctx, query, scope, key))
	if err != nil {
		if mapped := apperrors.MapDBError(err); apperrors.IsNotFound(mapped) {
			return nil, apperrors.NotFoundf("no trust subject %s/%s", scope, key)
		}
		return nil, err
	}
	return subject, nil
}

// UpsertScore writes a recomputed score, preserving any admin override
// already pinned on the row.
func (r *TrustRepo) UpsertScore(
	ctx context.Context,
	score *model.TrustScore,
) (*model.TrustScore, error) {
	now := r.timeProvider.Now().UTC()

	components, err := json.Marshal(score.Components)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "marshal trust components")
	}

	query := `
		INSERT INTO trust_scores (id, scope, subject_key, score, components, computed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (scope, subject_key) DO UPDATE
		SET score = EXCLUDED.score,
		    components = EXCLUDED.components,
		    computed_at = EXCLUDED.computed_at,
		    updated_at = EXCLUDED.updated_at
		RETURNING ` + trustScoreColumns

	stored, err := scanTrustScore(r.DB.QueryRowContext(
		ctx,
		query,
		uuid.NewString(),
		score.Scope,
		score.SubjectKey,
		score.Score,
		components,
		now,
	))
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return stored, nil
}

// GetScore returns the stored score for a subject, or NotFound.
func (r *TrustRepo) GetScore(
	ctx context.Context,
	scope model.TrustScope,
	key string,
) (*model.TrustScore, error) {
	query := `SELECT ` + trustScoreColumns + ` FROM trust_scores WHERE scope = $1 AND subject_key = $2`

	score, err := scanTrustScore(r.DB.QueryRowContext(ctx, query, scope, key))
	if err != nil {
		if mapped := apperrors.MapDBError(err); apperrors.IsNotFound(mapped) {
			return nil, apperrors.NotFoundf("no trust score for %s/%s", scope, key)
		}
		return nil, err
	}
	return score, nil
}

// SetAdminOverride pins an explicit override on the row, or clears it when
// override is nil. The computed score is left untouched.
func (r *TrustRepo) SetAdminOverride(
	ctx context.Context,
	scope model.TrustScope,
	key string,
	override *float64,
) error {
	now := r.timeProvider.Now().UTC()

	query := `
		UPDATE trust_scores
		SET admin_override = $3, updated_at = $4
		WHERE scope = $1 AND subject_key = $2
	`
	result, err := r.DB.ExecContext(ctx, query, scope, key, override, now)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set admin override rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFoundf("no trust score for %s/%s", scope, key)
	}
	return nil
}

func scanTrustSubject(row rowScanner) (*core.TrustSubject, error) {
	var (
		subject    core.TrustSubject
		components []byte
	)
	if err := row.Scan(&subject.Scope, &subject.SubjectKey, &components); err != nil {
		return nil, err
	}
	if len(components) > 0 {
		if err := json.Unmarshal(components, &subject.Components); err != nil {
			return nil, fmt.Errorf("decode trust components: %w", err)
		}
	}
	return &subject, nil
}

func scanTrustScore(row rowScanner) (*model.TrustScore, error) {
	var (
		score         model.TrustScore
		components    []byte
		adminOverride sql.NullFloat64
	)
	err := row.Scan(
		&score.ID,
		&score.Scope,
		&score.SubjectKey,
		&score.Score,
		&components,
		&adminOverride,
		&score.ComputedAt,
		&score.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(components) > 0 {
		if err := json.Unmarshal(components, &score.Components); err != nil {
			return nil, fmt.Errorf("decode trust components: %w", err)
		}
	}
	if adminOverride.Valid {
		v := adminOverride.Float64
		score.AdminOverride = &v
	}
	return &score, nil
}
