package enrichment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rakuda/backend/internal/domain/shared"
)

// TaskStatus tracks an enrichment task through its lifecycle.
type TaskStatus string

const (
	TaskStatusPending       TaskStatus = "PENDING"
	TaskStatusProcessing    TaskStatus = "PROCESSING"
	TaskStatusApproved      TaskStatus = "APPROVED"
	TaskStatusReadyToReview TaskStatus = "READY_TO_REVIEW"
	TaskStatusRejected      TaskStatus = "REJECTED"
	TaskStatusFailed        TaskStatus = "FAILED"
)

// TaskStatusFromValidation maps a validation outcome to the terminal task
// status an executed task lands in.
func TaskStatusFromValidation(status ValidationStatus) TaskStatus {
	switch status {
	case StatusRejected:
		return TaskStatusRejected
	case StatusReviewRequired:
		return TaskStatusReadyToReview
	default:
		return TaskStatusApproved
	}
}

// EnrichmentTask is a unit of listing enrichment work queued for
// processing and, when flagged, for human review.
type EnrichmentTask struct {
	shared.BaseAggregateRoot
	Title          string     `gorm:"type:varchar(500);not null"`
	Description    string     `gorm:"type:text"`
	SourceCategory string     `gorm:"type:varchar(200)"`
	Priority       int        `gorm:"not null;default:0"`
	Status         TaskStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ResultJSON     string     `gorm:"type:text"`
	ErrorCount     int        `gorm:"not null;default:0"`
	LastError      string     `gorm:"type:text"`
	RejectReason   string     `gorm:"type:text"`
	StartedAt      *time.Time
	CompletedAt    *time.Time
	DurationMS     int64 `gorm:"not null;default:0"`
}

// TableName returns the database table name
func (EnrichmentTask) TableName() string {
	return "enrichment_tasks"
}

// NewEnrichmentTask creates a pending task for a listing.
func NewEnrichmentTask(title, description, sourceCategory string, priority int) (*EnrichmentTask, error) {
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewDomainError("INVALID_TASK", "Task title cannot be empty")
	}
	return &EnrichmentTask{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Description:       description,
		SourceCategory:    sourceCategory,
		Priority:          priority,
		Status:            TaskStatusPending,
	}, nil
}

// Start transitions the task to PROCESSING.
func (t *EnrichmentTask) Start() error {
	if t.Status != TaskStatusPending {
		return shared.ErrInvalidState
	}
	now := time.Now()
	t.Status = TaskStatusProcessing
	t.StartedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()
	return nil
}

// Complete records the enrichment outcome and moves the task to its
// terminal status derived from the validation verdict.
func (t *EnrichmentTask) Complete(validation ValidationStatus, resultJSON string, duration time.Duration) error {
	if t.Status != TaskStatusProcessing {
		return shared.ErrInvalidState
	}
	now := time.Now()
	t.Status = TaskStatusFromValidation(validation)
	t.ResultJSON = resultJSON
	t.CompletedAt = &now
	t.DurationMS = duration.Milliseconds()
	t.UpdatedAt = now
	t.IncrementVersion()
	return nil
}

// Fail marks the task FAILED and records the error.
func (t *EnrichmentTask) Fail(message string) {
	now := time.Now()
	t.Status = TaskStatusFailed
	t.ErrorCount++
	t.LastError = message
	t.CompletedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()
}

// Approve publishes a reviewed task.
func (t *EnrichmentTask) Approve() error {
	if t.Status != TaskStatusReadyToReview {
		return shared.ErrInvalidState
	}
	t.Status = TaskStatusApproved
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// Reject declines a reviewed task with an operator-supplied reason.
func (t *EnrichmentTask) Reject(reason string) error {
	if t.Status != TaskStatusReadyToReview && t.Status != TaskStatusApproved {
		return shared.ErrInvalidState
	}
	t.Status = TaskStatusRejected
	t.RejectReason = reason
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// Retry requeues a failed task.
func (t *EnrichmentTask) Retry() error {
	if t.Status != TaskStatusFailed {
		return shared.ErrInvalidState
	}
	t.Status = TaskStatusPending
	t.LastError = ""
	t.StartedAt = nil
	t.CompletedAt = nil
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// TaskRepository persists enrichment tasks.
type TaskRepository interface {
	Save(ctx context.Context, task *EnrichmentTask) error
	FindByID(ctx context.Context, id uuid.UUID) (*EnrichmentTask, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*EnrichmentTask, int64, error)
	FindByStatus(ctx context.Context, status TaskStatus, limit int) ([]*EnrichmentTask, error)
	CountByStatus(ctx context.Context) (map[TaskStatus]int64, error)
}
