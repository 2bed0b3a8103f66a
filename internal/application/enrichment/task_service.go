package enrichment

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rakuda/backend/internal/domain/enrichment"
	"github.com/rakuda/backend/internal/domain/shared"
)

// TaskService manages the enrichment work queue: creating tasks, running
// them through the pipeline and handling the human review cycle.
type TaskService struct {
	repo     enrichment.TaskRepository
	enricher *EnrichmentService
	logger   *zap.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(repo enrichment.TaskRepository, enricher *EnrichmentService, logger *zap.Logger) *TaskService {
	return &TaskService{repo: repo, enricher: enricher, logger: logger}
}

// Create queues a listing for enrichment.
func (s *TaskService) Create(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error) {
	task, err := enrichment.NewEnrichmentTask(req.Title, req.Description, req.SourceCategory, req.Priority)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, task); err != nil {
		return nil, err
	}
	s.logger.Info("enrichment task created",
		zap.String("task_id", task.ID.String()),
		zap.Int("priority", task.Priority))
	return toTaskResponse(task), nil
}

// Get loads one task.
func (s *TaskService) Get(ctx context.Context, id uuid.UUID) (*TaskResponse, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTaskResponse(task), nil
}

// List returns tasks matching the filter plus the total count.
func (s *TaskService) List(ctx context.Context, filter shared.Filter) ([]*TaskResponse, int64, error) {
	tasks, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]*TaskResponse, len(tasks))
	for i, task := range tasks {
		responses[i] = toTaskResponse(task)
	}
	return responses, total, nil
}

// Execute runs a pending task through the enrichment pipeline. The task
// lands in APPROVED, READY_TO_REVIEW or REJECTED depending on the
// validation verdict, or FAILED when the task itself cannot be processed.
func (s *TaskService) Execute(ctx context.Context, id uuid.UUID) (*TaskResponse, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := task.Start(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, task); err != nil {
		return nil, err
	}

	result := s.enricher.EnrichProduct(ctx, task.Title, task.Description, task.SourceCategory)

	payload, err := json.Marshal(result)
	if err != nil {
		task.Fail(err.Error())
		if saveErr := s.repo.Save(ctx, task); saveErr != nil {
			return nil, saveErr
		}
		return toTaskResponse(task), nil
	}

	if err := task.Complete(result.Validation.Status, string(payload), result.ProcessingTime); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("enrichment task executed",
		zap.String("task_id", task.ID.String()),
		zap.String("status", string(task.Status)),
		zap.Int64("duration_ms", task.DurationMS))
	return toTaskResponse(task), nil
}

// Approve publishes a reviewed task.
func (s *TaskService) Approve(ctx context.Context, id uuid.UUID) (*TaskResponse, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := task.Approve(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, task); err != nil {
		return nil, err
	}
	return toTaskResponse(task), nil
}

// Reject declines a reviewed task with an operator-supplied reason.
func (s *TaskService) Reject(ctx context.Context, id uuid.UUID, reason string) (*TaskResponse, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		reason = enrichment.ManualRejectionFlag
	}
	if err := task.Reject(reason); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, task); err != nil {
		return nil, err
	}
	s.logger.Info("enrichment task rejected manually",
		zap.String("task_id", task.ID.String()),
		zap.String("reason", reason))
	return toTaskResponse(task), nil
}

// Retry requeues a failed task.
func (s *TaskService) Retry(ctx context.Context, id uuid.UUID) (*TaskResponse, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := task.Retry(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, task); err != nil {
		return nil, err
	}
	return toTaskResponse(task), nil
}

// ReviewQueue lists tasks awaiting human review, oldest first.
func (s *TaskService) ReviewQueue(ctx context.Context, limit int) ([]*TaskResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	tasks, err := s.repo.FindByStatus(ctx, enrichment.TaskStatusReadyToReview, limit)
	if err != nil {
		return nil, err
	}
	responses := make([]*TaskResponse, len(tasks))
	for i, task := range tasks {
		responses[i] = toTaskResponse(task)
	}
	return responses, nil
}

// Stats aggregates task counts by status.
func (s *TaskService) Stats(ctx context.Context) (*TaskStatsResponse, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stats := &TaskStatsResponse{
		Pending:       counts[enrichment.TaskStatusPending],
		Processing:    counts[enrichment.TaskStatusProcessing],
		Approved:      counts[enrichment.TaskStatusApproved],
		ReadyToReview: counts[enrichment.TaskStatusReadyToReview],
		Rejected:      counts[enrichment.TaskStatusRejected],
		Failed:        counts[enrichment.TaskStatusFailed],
	}
	stats.Total = stats.Pending + stats.Processing + stats.Approved +
		stats.ReadyToReview + stats.Rejected + stats.Failed
	return stats, nil
}

func toTaskResponse(task *enrichment.EnrichmentTask) *TaskResponse {
	resp := &TaskResponse{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		SourceCategory: task.SourceCategory,
		Priority:       task.Priority,
		Status:         task.Status,
		ErrorCount:     task.ErrorCount,
		LastError:      task.LastError,
		RejectReason:   task.RejectReason,
		DurationMS:     task.DurationMS,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
		StartedAt:      task.StartedAt,
		CompletedAt:    task.CompletedAt,
	}
	if task.ResultJSON != "" {
		var result enrichment.EnrichmentResult
		if err := json.Unmarshal([]byte(task.ResultJSON), &result); err == nil {
			resp.Result = &result
		}
	}
	return resp
}
