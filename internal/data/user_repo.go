package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stumbleable/jobs/internal/core"
	"github.com/stumbleable/jobs/internal/domain/model"
	apperrors "github.com/stumbleable/jobs/internal/errors"
)

// UserRepo resolves identities and queries recipient cohorts for digest jobs.
type UserRepo struct {
	DB *sql.DB
}

// NewUserRepo creates a new UserRepo with the given database connection.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// ResolveExternalID translates an auth-provider user id (e.g. a Clerk
// "user_..." id) into the internal UUID. The translation lives here, at the
// data boundary, so business logic never sniffs id formats.
func (r *UserRepo) ResolveExternalID(ctx context.Context, externalID string) (string, error) {
	if externalID == "" {
		return "", apperrors.Validation("external user id is required")
	}

	var internalID string
	query := `SELECT id FROM users WHERE external_id = $1`
	if err := r.DB.QueryRowContext(ctx, query, externalID).Scan(&internalID); err != nil {
		if mapped := apperrors.MapDBError(err); apperrors.IsNotFound(mapped) {
			return "", apperrors.NotFoundf("no user for external id %s", externalID)
		}
		return "", fmt.Errorf("resolve external id: %w", err)
	}
	return internalID, nil
}

// ListDigestRecipients returns active users opted into the given marketing
// category, either by an explicit preference row or by category default.
func (r *UserRepo) ListDigestRecipients(
	ctx context.Context,
	category model.PreferenceCategory,
) ([]core.DigestRecipient, error) {
	column, err := preferenceColumn(category)
	if err != nil {
		return nil, err
	}

	// Marketing categories require an explicit opt-in row; transactional
	// categories also match users without a preference row.
	var query string
	if category.Marketing() {
		query = fmt.Sprintf(`
			SELECT u.id, u.email, u.external_id
			FROM users u
			JOIN email_preferences p ON p.user_id = u.id
			WHERE u.deleted_at IS NULL
			  AND p.unsubscribed_all = FALSE
			  AND p.%s = TRUE
			ORDER BY u.created_at ASC`, column)
	} else {
		query = fmt.Sprintf(`
			SELECT u.id, u.email, u.external_id
			FROM users u
			LEFT JOIN email_preferences p ON p.user_id = u.id
			WHERE u.deleted_at IS NULL
			  AND (p.user_id IS NULL OR (p.unsubscribed_all = FALSE AND p.%s = TRUE))
			ORDER BY u.created_at ASC`, column)
	}

	return r.queryRecipients(ctx, query)
}

// ListDormantSince returns users whose last activity predates the cutoff,
// for the re-engagement job. Preference filtering happens at send time.
func (r *UserRepo) ListDormantSince(
	ctx context.Context,
	cutoff time.Time,
) ([]core.DigestRecipient, error) {
	query := `
		SELECT id, email, external_id
		FROM users
		WHERE deleted_at IS NULL AND last_active_at < $1
		ORDER BY last_active_at ASC
	`
	return r.queryRecipients(ctx, query, cutoff.UTC())
}

func (r *UserRepo) queryRecipients(
	ctx context.Context,
	query string,
	args ...any,
) ([]core.DigestRecipient, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recipients: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var recipients []core.DigestRecipient
	for rows.Next() {
		var (
			rec        core.DigestRecipient
			externalID sql.NullString
		)
		if scanErr := rows.Scan(&rec.UserID, &rec.Email, &externalID); scanErr != nil {
			return nil, fmt.Errorf("scan recipient: %w", scanErr)
		}
		if externalID.Valid {
			e := externalID.String
			rec.ExternalID = &e
		}
		recipients = append(recipients, rec)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate recipients: %w", rowsErr)
	}

	return recipients, nil
}

// preferenceColumn maps a category to its email_preferences column. The
// switch keeps category names out of SQL string interpolation.
func preferenceColumn(category model.PreferenceCategory) (string, error) {
	switch category {
	case model.CategoryWelcome:
		return "welcome_email", nil
	case model.CategoryWeeklyTrending:
		return "weekly_trending", nil
	case model.CategoryWeeklyNew:
		return "weekly_new", nil
	case model.CategorySavedDigest:
		return "saved_digest", nil
	case model.CategorySubmissionUpdates:
		return "submission_updates", nil
	case model.CategoryReEngagement:
		return "re_engagement", nil
	case model.CategoryAccountNotifications:
		return "account_notifications", nil
	default:
		return "", apperrors.Validationf("unknown preference category %q", category)
	}
}
