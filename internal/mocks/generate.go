// Package mocks provides mock implementations for testing the stumbleable jobs system.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the
// core repository and provider interfaces. The mocks are generated using go:generate
// directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockJobExecutionRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(execution, nil)
package mocks

// Generate mock for JobExecutionRepository, the execution ledger:
// Create, Complete, GetByID, List, Stats
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=job_execution_repository_mock.go github.com/stumbleable/jobs/internal/core JobExecutionRepository

// Generate mock for JobScheduleRepository, per-job overrides and run counters:
// Upsert, GetByName, List, SetEnabled, SetCronExpression, RecordCompletion
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=job_schedule_repository_mock.go github.com/stumbleable/jobs/internal/core JobScheduleRepository

// Generate mock for EmailQueueRepository, the outbound email queue:
// Insert, GetByID, SelectDue, MarkSent, RecordFailure, ResetForRetry, Delete, List, Status, DeleteTerminalOlderThan
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=email_queue_repository_mock.go github.com/stumbleable/jobs/internal/core EmailQueueRepository

// Generate mock for EmailLogRepository, the delivery audit trail:
// Append
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=email_log_repository_mock.go github.com/stumbleable/jobs/internal/core EmailLogRepository

// Generate mock for EmailPreferencesRepository, per-recipient opt-ins:
// GetByUserID, Upsert
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=email_preferences_repository_mock.go github.com/stumbleable/jobs/internal/core EmailPreferencesRepository

// Generate mock for UserRepository, identity resolution and recipient cohorts:
// ResolveExternalID, ListDigestRecipients, ListDormantSince
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/stumbleable/jobs/internal/core UserRepository

// Generate mock for DiscoveryRepository, digest content:
// ListTrending, ListNewSince
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=discovery_repository_mock.go github.com/stumbleable/jobs/internal/core DiscoveryRepository

// Generate mock for TrustRepository, persisted trust scores:
// ListSubjects, SubjectByKey, UpsertScore, GetScore, SetAdminOverride
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=trust_repository_mock.go github.com/stumbleable/jobs/internal/core TrustRepository

// Generate mock for TrustScoreCache, the Redis read-through cache:
// Get, Set, Invalidate
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=trust_score_cache_mock.go github.com/stumbleable/jobs/internal/core TrustScoreCache

// Generate mock for EmailSender, the delivery provider:
// Send
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=email_sender_mock.go github.com/stumbleable/jobs/internal/core EmailSender

// Generate mock for TemplateRenderer, the email template engine:
// Render
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=template_renderer_mock.go github.com/stumbleable/jobs/internal/core TemplateRenderer
