package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// EmailType identifies a transactional or marketing email template.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type EmailType string

// EmailStatus represents the delivery status of a queue item.
type EmailStatus string

// PreferenceCategory groups email types under a single recipient opt-in flag.
type PreferenceCategory string

const (
	// EmailTypeWelcome is sent once after signup.
	EmailTypeWelcome EmailType = "welcome"
	// EmailTypeWeeklyTrending is the weekly trending-discoveries digest.
	EmailTypeWeeklyTrending EmailType = "weekly-trending"
	// EmailTypeWeeklyNew is the weekly new-discoveries digest.
	EmailTypeWeeklyNew EmailType = "weekly-new"
	// EmailTypeSavedDigest summarizes a user's saved discoveries.
	EmailTypeSavedDigest EmailType = "saved-digest"
	// EmailTypeSubmissionReceived confirms a content submission was received.
	EmailTypeSubmissionReceived EmailType = "submission-received"
	// EmailTypeSubmissionApproved notifies that a submission was approved.
	EmailTypeSubmissionApproved EmailType = "submission-approved"
	// EmailTypeSubmissionRejected notifies that a submission was rejected.
	EmailTypeSubmissionRejected EmailType = "submission-rejected"
	// EmailTypeReEngagement nudges dormant users back.
	EmailTypeReEngagement EmailType = "re-engagement"
	// EmailTypeDeletionRequest confirms an account deletion request.
	EmailTypeDeletionRequest EmailType = "deletion-request"
	// EmailTypeDeletionComplete confirms account deletion finished.
	EmailTypeDeletionComplete EmailType = "deletion-complete"
	// EmailTypeDeletionCancelled confirms an account deletion was cancelled.
	EmailTypeDeletionCancelled EmailType = "deletion-cancelled"

	// EmailStatusPending indicates the item is awaiting delivery.
	EmailStatusPending EmailStatus = "pending"
	// EmailStatusSent indicates terminal successful delivery (or a
	// preference opt-out, which is recorded as sent with a note).
	EmailStatusSent EmailStatus = "sent"
	// EmailStatusFailed indicates the retry budget was exhausted.
	EmailStatusFailed EmailStatus = "failed"

	// CategoryWelcome gates the welcome email.
	CategoryWelcome PreferenceCategory = "welcome_email"
	// CategoryWeeklyTrending gates the weekly trending digest.
	CategoryWeeklyTrending PreferenceCategory = "weekly_trending"
	// CategoryWeeklyNew gates the weekly new-discoveries digest.
	CategoryWeeklyNew PreferenceCategory = "weekly_new"
	// CategorySavedDigest gates the saved-discoveries digest.
	CategorySavedDigest PreferenceCategory = "saved_digest"
	// CategorySubmissionUpdates gates submission lifecycle notices.
	CategorySubmissionUpdates PreferenceCategory = "submission_updates"
	// CategoryReEngagement gates re-engagement nudges.
	CategoryReEngagement PreferenceCategory = "re_engagement"
	// CategoryAccountNotifications gates account/legal notices.
	CategoryAccountNotifications PreferenceCategory = "account_notifications"
)

// DefaultMaxAttempts is the fixed retry budget for a queue item.
const DefaultMaxAttempts = 3

// emailSubjects maps each email type to its subject line.
var emailSubjects = map[EmailType]string{
	EmailTypeWelcome:            "Welcome to Stumbleable!",
	EmailTypeWeeklyTrending:     "Trending discoveries this week",
	EmailTypeWeeklyNew:          "Fresh discoveries waiting for you",
	EmailTypeSavedDigest:        "Your saved discoveries digest",
	EmailTypeSubmissionReceived: "We received your submission",
	EmailTypeSubmissionApproved: "Your submission is live!",
	EmailTypeSubmissionRejected: "Update on your submission",
	EmailTypeReEngagement:       "We miss you! Come stumble with us",
	EmailTypeDeletionRequest:    "Account deletion requested",
	EmailTypeDeletionComplete:   "Your account has been deleted",
	EmailTypeDeletionCancelled:  "Account deletion cancelled",
}

// emailCategories maps each email type to the preference category that gates it.
var emailCategories = map[EmailType]PreferenceCategory{
	EmailTypeWelcome:            CategoryWelcome,
	EmailTypeWeeklyTrending:     CategoryWeeklyTrending,
	EmailTypeWeeklyNew:          CategoryWeeklyNew,
	EmailTypeSavedDigest:        CategorySavedDigest,
	EmailTypeSubmissionReceived: CategorySubmissionUpdates,
	EmailTypeSubmissionApproved: CategorySubmissionUpdates,
	EmailTypeSubmissionRejected: CategorySubmissionUpdates,
	EmailTypeReEngagement:       CategoryReEngagement,
	EmailTypeDeletionRequest:    CategoryAccountNotifications,
	EmailTypeDeletionComplete:   CategoryAccountNotifications,
	EmailTypeDeletionCancelled:  CategoryAccountNotifications,
}

// marketingCategories are opt-in: with no preference row present they deny sends.
// Transactional categories default to allowed.
var marketingCategories = map[PreferenceCategory]bool{
	CategoryWeeklyTrending: true,
	CategoryWeeklyNew:      true,
	CategorySavedDigest:    true,
	CategoryReEngagement:   true,
}

// UnmarshalText implements encoding.TextUnmarshaler for EmailType.
func (t *EmailType) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	et := EmailType(v)
	if et.Valid() {
		*t = et
		return nil
	}
	return fmt.Errorf("invalid EmailType: %q", v)
}

// Valid returns true if the EmailType is a known template identifier.
func (t EmailType) Valid() bool {
	_, ok := emailCategories[t]
	return ok
}

// Subject returns the subject line for the email type, falling back to a
// generic subject for unmapped types.
func (t EmailType) Subject() string {
	if s, ok := emailSubjects[t]; ok {
		return s
	}
	return "Stumbleable notification"
}

// Category returns the preference category gating this email type.
func (t EmailType) Category() (PreferenceCategory, bool) {
	c, ok := emailCategories[t]
	return c, ok
}

// Valid returns true if the EmailStatus is valid.
func (s EmailStatus) Valid() bool {
	return s == EmailStatusPending || s == EmailStatusSent || s == EmailStatusFailed
}

// Marketing reports whether the category is opt-in (default deny).
func (c PreferenceCategory) Marketing() bool {
	return marketingCategories[c]
}

// EmailQueueItem is one durable unit of outbound email.
type EmailQueueItem struct {
	ID             string          `json:"id"                      db:"id"`
	UserID         *string         `json:"user_id,omitempty"       db:"user_id"`
	EmailType      EmailType       `json:"email_type"              db:"email_type"`
	RecipientEmail string          `json:"recipient_email"         db:"recipient_email"`
	Subject        string          `json:"subject"                 db:"subject"`
	TemplateData   json.RawMessage `json:"template_data,omitempty" db:"template_data"`
	ScheduledAt    time.Time       `json:"scheduled_at"            db:"scheduled_at"`
	Status         EmailStatus     `json:"status"                  db:"status"`
	Attempts       int             `json:"attempts"                db:"attempts"`
	MaxAttempts    int             `json:"max_attempts"            db:"max_attempts"`
	ErrorMessage   *string         `json:"error_message,omitempty" db:"error_message"`
	SentAt         *time.Time      `json:"sent_at,omitempty"       db:"sent_at"`
	CreatedAt      time.Time       `json:"created_at"              db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"              db:"updated_at"`
}

// EnqueueEmailRequest represents a request to enqueue one email.
type EnqueueEmailRequest struct {
	UserID         *string         `json:"user_id,omitempty"`
	EmailType      EmailType       `json:"email_type"`
	RecipientEmail string          `json:"recipient_email"`
	TemplateData   json.RawMessage `json:"template_data,omitempty"`
	ScheduledAt    *time.Time      `json:"scheduled_at,omitempty"`
}

// Validate validates the EnqueueEmailRequest fields.
func (r *EnqueueEmailRequest) Validate() error {
	if !r.EmailType.Valid() {
		return fmt.Errorf("invalid email type: %q", r.EmailType)
	}
	if r.RecipientEmail == "" {
		return errors.New("recipient email is required")
	}
	if _, err := mail.ParseAddress(r.RecipientEmail); err != nil {
		return fmt.Errorf("invalid recipient email: %w", err)
	}
	return nil
}

// EmailLog is one audit row for a delivery attempt outcome.
type EmailLog struct {
	ID                string     `json:"id"                            db:"id"`
	QueueItemID       string     `json:"queue_item_id"                 db:"queue_item_id"`
	UserID            *string    `json:"user_id,omitempty"             db:"user_id"`
	EmailType         EmailType  `json:"email_type"                    db:"email_type"`
	RecipientEmail    string     `json:"recipient_email"               db:"recipient_email"`
	Status            string     `json:"status"                        db:"status"`
	ProviderMessageID *string    `json:"provider_message_id,omitempty" db:"provider_message_id"`
	ErrorMessage      *string    `json:"error_message,omitempty"       db:"error_message"`
	CreatedAt         time.Time  `json:"created_at"                    db:"created_at"`
	SentAt            *time.Time `json:"sent_at,omitempty"             db:"sent_at"`
}

// EmailPreferences is one row of per-recipient category opt-ins.
// A nil *EmailPreferences means "no row present" and falls back to defaults.
type EmailPreferences struct {
	UserID               string    `json:"user_id"               db:"user_id"`
	WelcomeEmail         bool      `json:"welcome_email"         db:"welcome_email"`
	WeeklyTrending       bool      `json:"weekly_trending"       db:"weekly_trending"`
	WeeklyNew            bool      `json:"weekly_new"            db:"weekly_new"`
	SavedDigest          bool      `json:"saved_digest"          db:"saved_digest"`
	SubmissionUpdates    bool      `json:"submission_updates"    db:"submission_updates"`
	ReEngagement         bool      `json:"re_engagement"         db:"re_engagement"`
	AccountNotifications bool      `json:"account_notifications" db:"account_notifications"`
	UnsubscribedAll      bool      `json:"unsubscribed_all"      db:"unsubscribed_all"`
	UpdatedAt            time.Time `json:"updated_at"            db:"updated_at"`
}

// categoryFlag returns the stored flag for a category.
func (p *EmailPreferences) categoryFlag(c PreferenceCategory) bool {
	switch c {
	case CategoryWelcome:
		return p.WelcomeEmail
	case CategoryWeeklyTrending:
		return p.WeeklyTrending
	case CategoryWeeklyNew:
		return p.WeeklyNew
	case CategorySavedDigest:
		return p.SavedDigest
	case CategorySubmissionUpdates:
		return p.SubmissionUpdates
	case CategoryReEngagement:
		return p.ReEngagement
	case CategoryAccountNotifications:
		return p.AccountNotifications
	default:
		return false
	}
}

// AllowsSend decides whether prefs authorize a send for the given email type.
// unsubscribed_all suppresses every category with no exemptions; when prefs
// is nil (no row present) transactional categories are allowed and marketing
// categories are denied.
func AllowsSend(prefs *EmailPreferences, emailType EmailType) bool {
	category, ok := emailType.Category()
	if !ok {
		return false
	}
	if prefs == nil {
		return !category.Marketing()
	}
	if prefs.UnsubscribedAll {
		return false
	}
	return prefs.categoryFlag(category)
}

// DefaultPreferences returns the preference row implied by no stored row.
func DefaultPreferences(userID string) *EmailPreferences {
	return &EmailPreferences{
		UserID:               userID,
		WelcomeEmail:         true,
		SubmissionUpdates:    true,
		AccountNotifications: true,
	}
}

// QueueStatus summarizes the email queue for introspection endpoints.
type QueueStatus struct {
	Pending   int `json:"pending"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
	Scheduled int `json:"scheduled"`
}

// QueueItemQuery filters paginated queue listings.
type QueueItemQuery struct {
	Status    EmailStatus
	EmailType EmailType
	Limit     int
	Offset    int
}
