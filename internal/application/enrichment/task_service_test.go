package enrichment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rakuda/backend/internal/domain/enrichment"
	"github.com/rakuda/backend/internal/domain/shared"
)

type fakeTaskRepo struct {
	tasks map[uuid.UUID]*enrichment.EnrichmentTask
	order []uuid.UUID
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[uuid.UUID]*enrichment.EnrichmentTask)}
}

func (r *fakeTaskRepo) Save(_ context.Context, task *enrichment.EnrichmentTask) error {
	if _, ok := r.tasks[task.ID]; !ok {
		r.order = append(r.order, task.ID)
	}
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *fakeTaskRepo) FindByID(_ context.Context, id uuid.UUID) (*enrichment.EnrichmentTask, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *task
	return &copied, nil
}

func (r *fakeTaskRepo) FindAll(_ context.Context, _ shared.Filter) ([]*enrichment.EnrichmentTask, int64, error) {
	out := make([]*enrichment.EnrichmentTask, 0, len(r.order))
	for _, id := range r.order {
		copied := *r.tasks[id]
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeTaskRepo) FindByStatus(_ context.Context, status enrichment.TaskStatus, limit int) ([]*enrichment.EnrichmentTask, error) {
	var out []*enrichment.EnrichmentTask
	for _, id := range r.order {
		if r.tasks[id].Status == status && len(out) < limit {
			copied := *r.tasks[id]
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) CountByStatus(_ context.Context) (map[enrichment.TaskStatus]int64, error) {
	counts := make(map[enrichment.TaskStatus]int64)
	for _, task := range r.tasks {
		counts[task.Status]++
	}
	return counts, nil
}

func newTestTaskService(repo enrichment.TaskRepository) *TaskService {
	enricher := NewEnrichmentService(nil, nil, zap.NewNop())
	return NewTaskService(repo, enricher, zap.NewNop())
}

func TestTaskServiceCreateAndGet(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTestTaskService(repo)

	created, err := svc.Create(context.Background(), CreateTaskRequest{
		Title:    "SEIKO 腕時計",
		Priority: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, enrichment.TaskStatusPending, created.Status)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, 3, got.Priority)
}

func TestTaskServiceCreateRejectsEmptyTitle(t *testing.T) {
	svc := newTestTaskService(newFakeTaskRepo())

	_, err := svc.Create(context.Background(), CreateTaskRequest{Title: "  "})
	assert.Error(t, err)
}

func TestTaskServiceExecute(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected enrichment.TaskStatus
	}{
		{"clean listing is approved", "SEIKO 腕時計 自動巻き", enrichment.TaskStatusApproved},
		{"review keyword parks for review", "ブランド風 レプリカ バッグ", enrichment.TaskStatusReadyToReview},
		{"prohibited keyword rejects", "日本刀 真剣", enrichment.TaskStatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeTaskRepo()
			svc := newTestTaskService(repo)

			created, err := svc.Create(context.Background(), CreateTaskRequest{Title: tt.title})
			require.NoError(t, err)

			executed, err := svc.Execute(context.Background(), created.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, executed.Status)
			require.NotNil(t, executed.Result, "executed task stores its result")
			assert.Equal(t, tt.title, executed.Result.Translations.EN.Title)
		})
	}
}

func TestTaskServiceExecuteNotPending(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTestTaskService(repo)

	created, err := svc.Create(context.Background(), CreateTaskRequest{Title: "SEIKO 腕時計"})
	require.NoError(t, err)

	_, err = svc.Execute(context.Background(), created.ID)
	require.NoError(t, err)

	_, err = svc.Execute(context.Background(), created.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestTaskServiceReviewCycle(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTestTaskService(repo)

	created, err := svc.Create(context.Background(), CreateTaskRequest{Title: "ブランド風 レプリカ バッグ"})
	require.NoError(t, err)
	_, err = svc.Execute(context.Background(), created.ID)
	require.NoError(t, err)

	queue, err := svc.ReviewQueue(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, created.ID, queue[0].ID)

	approved, err := svc.Approve(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, enrichment.TaskStatusApproved, approved.Status)

	// once approved the review queue is empty
	queue, err = svc.ReviewQueue(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, queue)
}

func TestTaskServiceReject(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTestTaskService(repo)

	created, err := svc.Create(context.Background(), CreateTaskRequest{Title: "ブランド風 レプリカ バッグ"})
	require.NoError(t, err)
	_, err = svc.Execute(context.Background(), created.ID)
	require.NoError(t, err)

	rejected, err := svc.Reject(context.Background(), created.ID, "authenticity unverifiable")
	require.NoError(t, err)
	assert.Equal(t, enrichment.TaskStatusRejected, rejected.Status)
	assert.Equal(t, "authenticity unverifiable", rejected.RejectReason)
}

func TestTaskServiceRejectDefaultsToManualFlag(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTestTaskService(repo)

	created, err := svc.Create(context.Background(), CreateTaskRequest{Title: "ブランド風 レプリカ バッグ"})
	require.NoError(t, err)
	_, err = svc.Execute(context.Background(), created.ID)
	require.NoError(t, err)

	rejected, err := svc.Reject(context.Background(), created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, enrichment.ManualRejectionFlag, rejected.RejectReason)
}

func TestTaskServiceRetry(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTestTaskService(repo)

	task, err := enrichment.NewEnrichmentTask("SEIKO 腕時計", "", "", 0)
	require.NoError(t, err)
	require.NoError(t, task.Start())
	task.Fail("classifier timeout")
	require.NoError(t, repo.Save(context.Background(), task))

	retried, err := svc.Retry(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, enrichment.TaskStatusPending, retried.Status)

	// a retried task can be executed again
	executed, err := svc.Execute(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, enrichment.TaskStatusApproved, executed.Status)
}

func TestTaskServiceStats(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTestTaskService(repo)

	for _, title := range []string{"SEIKO 腕時計", "CITIZEN 腕時計"} {
		created, err := svc.Create(context.Background(), CreateTaskRequest{Title: title})
		require.NoError(t, err)
		_, err = svc.Execute(context.Background(), created.ID)
		require.NoError(t, err)
	}
	_, err := svc.Create(context.Background(), CreateTaskRequest{Title: "未処理の商品"})
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Approved)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(3), stats.Total)
}

func TestTaskServiceGetNotFound(t *testing.T) {
	svc := newTestTaskService(newFakeTaskRepo())

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
