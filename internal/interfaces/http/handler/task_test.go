package handler

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	enrichapp "github.com/rakuda/backend/internal/application/enrichment"
	"github.com/rakuda/backend/internal/domain/enrichment"
	"github.com/rakuda/backend/internal/domain/shared"
	"github.com/rakuda/backend/internal/interfaces/http/router"
)

// memTaskRepo is an in-memory TaskRepository for handler tests.
type memTaskRepo struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*enrichment.EnrichmentTask
	order []uuid.UUID
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[uuid.UUID]*enrichment.EnrichmentTask)}
}

func (r *memTaskRepo) Save(_ context.Context, task *enrichment.EnrichmentTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		r.order = append(r.order, task.ID)
	}
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *memTaskRepo) FindByID(_ context.Context, id uuid.UUID) (*enrichment.EnrichmentTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *task
	return &copied, nil
}

func (r *memTaskRepo) FindAll(_ context.Context, filter shared.Filter) ([]*enrichment.EnrichmentTask, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*enrichment.EnrichmentTask
	for _, id := range r.order {
		task := r.tasks[id]
		if status, ok := filter.Filters["status"]; ok && string(task.Status) != fmt.Sprint(status) {
			continue
		}
		copied := *task
		matched = append(matched, &copied)
	}
	return matched, int64(len(matched)), nil
}

func (r *memTaskRepo) FindByStatus(_ context.Context, status enrichment.TaskStatus, limit int) ([]*enrichment.EnrichmentTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*enrichment.EnrichmentTask
	for _, id := range r.order {
		if len(matched) == limit {
			break
		}
		if task := r.tasks[id]; task.Status == status {
			copied := *task
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

func (r *memTaskRepo) CountByStatus(_ context.Context) (map[enrichment.TaskStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[enrichment.TaskStatus]int64)
	for _, task := range r.tasks {
		counts[task.Status]++
	}
	return counts, nil
}

func newTaskTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	enrichmentService := enrichapp.NewEnrichmentService(nil, nil, logger)
	taskService := enrichapp.NewTaskService(newMemTaskRepo(), enrichmentService, logger)

	engine := gin.New()
	router.NewRouter(engine).
		Register(NewTaskHandler(taskService)).
		Setup()
	return engine
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	engine := newTaskTestEngine(t)

	w, envelope := doJSON(t, engine, http.MethodPost, "/api/v1/enrichment/tasks",
		`{"title":"SEIKO 腕時計 自動巻き","description":"美品","sourceCategory":"時計","priority":1}`)
	require.Equal(t, http.StatusCreated, w.Code)

	data := envelope["data"].(map[string]any)
	taskID := data["id"].(string)
	assert.Equal(t, "PENDING", data["status"])

	t.Run("get returns the created task", func(t *testing.T) {
		w, envelope := doJSON(t, engine, http.MethodGet, "/api/v1/enrichment/tasks/"+taskID, "")
		require.Equal(t, http.StatusOK, w.Code)
		data := envelope["data"].(map[string]any)
		assert.Equal(t, "SEIKO 腕時計 自動巻き", data["title"])
	})

	t.Run("execute lands the task in APPROVED", func(t *testing.T) {
		w, envelope := doJSON(t, engine, http.MethodPost, "/api/v1/enrichment/tasks/"+taskID+"/execute", "")
		require.Equal(t, http.StatusOK, w.Code)

		data := envelope["data"].(map[string]any)
		assert.Equal(t, "APPROVED", data["status"])
		result := data["result"].(map[string]any)
		validation := result["validation"].(map[string]any)
		assert.Equal(t, "approved", validation["status"])
	})

	t.Run("double execute is an invalid state", func(t *testing.T) {
		w, envelope := doJSON(t, engine, http.MethodPost, "/api/v1/enrichment/tasks/"+taskID+"/execute", "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		errInfo := envelope["error"].(map[string]any)
		assert.Equal(t, "ERR_INVALID_STATE", errInfo["code"])
	})

	t.Run("list includes the task with meta", func(t *testing.T) {
		w, envelope := doJSON(t, engine, http.MethodGet, "/api/v1/enrichment/tasks?page=1&page_size=10", "")
		require.Equal(t, http.StatusOK, w.Code)
		meta := envelope["meta"].(map[string]any)
		assert.Equal(t, float64(1), meta["total"])
	})

	t.Run("stats count the approved task", func(t *testing.T) {
		w, envelope := doJSON(t, engine, http.MethodGet, "/api/v1/enrichment/tasks/stats", "")
		require.Equal(t, http.StatusOK, w.Code)
		data := envelope["data"].(map[string]any)
		assert.Equal(t, float64(1), data["approved"])
		assert.Equal(t, float64(1), data["total"])
	})
}

func TestTaskReviewCycleOverHTTP(t *testing.T) {
	engine := newTaskTestEngine(t)

	// Trademark wording parks the task for review.
	w, envelope := doJSON(t, engine, http.MethodPost, "/api/v1/enrichment/tasks",
		`{"title":"ブランド風 レプリカ バッグ","description":""}`)
	require.Equal(t, http.StatusCreated, w.Code)
	taskID := envelope["data"].(map[string]any)["id"].(string)

	w, envelope = doJSON(t, engine, http.MethodPost, "/api/v1/enrichment/tasks/"+taskID+"/execute", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "READY_TO_REVIEW", envelope["data"].(map[string]any)["status"])

	t.Run("review queue lists the task", func(t *testing.T) {
		w, envelope := doJSON(t, engine, http.MethodGet, "/api/v1/enrichment/tasks/review-queue", "")
		require.Equal(t, http.StatusOK, w.Code)
		data := envelope["data"].([]any)
		require.Len(t, data, 1)
	})

	t.Run("reject records the reason", func(t *testing.T) {
		w, envelope := doJSON(t, engine, http.MethodPost, "/api/v1/enrichment/tasks/"+taskID+"/reject",
			`{"reason":"counterfeit suspicion"}`)
		require.Equal(t, http.StatusOK, w.Code)
		data := envelope["data"].(map[string]any)
		assert.Equal(t, "REJECTED", data["status"])
		assert.Equal(t, "counterfeit suspicion", data["rejectReason"])
	})
}

func TestTaskRejectWithoutBody(t *testing.T) {
	engine := newTaskTestEngine(t)

	w, envelope := doJSON(t, engine, http.MethodPost, "/api/v1/enrichment/tasks",
		`{"title":"ブランド風 レプリカ バッグ","description":""}`)
	require.Equal(t, http.StatusCreated, w.Code)
	taskID := envelope["data"].(map[string]any)["id"].(string)

	w, _ = doJSON(t, engine, http.MethodPost, "/api/v1/enrichment/tasks/"+taskID+"/execute", "")
	require.Equal(t, http.StatusOK, w.Code)

	w, envelope = doJSON(t, engine, http.MethodPost, "/api/v1/enrichment/tasks/"+taskID+"/reject", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "REJECTED", data["status"])
	assert.Equal(t, "manual_rejection", data["rejectReason"])
}

func TestTaskErrorResponses(t *testing.T) {
	engine := newTaskTestEngine(t)

	t.Run("malformed id", func(t *testing.T) {
		w, _ := doJSON(t, engine, http.MethodGet, "/api/v1/enrichment/tasks/not-a-uuid", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown task", func(t *testing.T) {
		w, envelope := doJSON(t, engine, http.MethodGet, "/api/v1/enrichment/tasks/"+uuid.NewString(), "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		errInfo := envelope["error"].(map[string]any)
		assert.Equal(t, "ERR_NOT_FOUND", errInfo["code"])
	})

	t.Run("empty title", func(t *testing.T) {
		w, _ := doJSON(t, engine, http.MethodPost, "/api/v1/enrichment/tasks", `{"title":""}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
