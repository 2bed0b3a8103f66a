package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rakuda/backend/internal/domain/enrichment"
	"github.com/rakuda/backend/internal/domain/shared"
)

// GormTaskRepository implements enrichment.TaskRepository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// Save creates or updates a task
func (r *GormTaskRepository) Save(ctx context.Context, task *enrichment.EnrichmentTask) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// FindByID finds a task by its ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*enrichment.EnrichmentTask, error) {
	var task enrichment.EnrichmentTask
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindAll finds tasks matching the filter along with the total count
func (r *GormTaskRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*enrichment.EnrichmentTask, int64, error) {
	query := r.db.WithContext(ctx).Model(&enrichment.EnrichmentTask{})
	query = applyTaskFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	}

	var tasks []*enrichment.EnrichmentTask
	if err := query.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// FindByStatus finds up to limit tasks in the given status, oldest first
func (r *GormTaskRepository) FindByStatus(ctx context.Context, status enrichment.TaskStatus, limit int) ([]*enrichment.EnrichmentTask, error) {
	var tasks []*enrichment.EnrichmentTask
	query := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("priority DESC, created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// CountByStatus returns the number of tasks per status
func (r *GormTaskRepository) CountByStatus(ctx context.Context) (map[enrichment.TaskStatus]int64, error) {
	type row struct {
		Status enrichment.TaskStatus
		Count  int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&enrichment.EnrichmentTask{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[enrichment.TaskStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// applyTaskFilter applies search and field filters without pagination
func applyTaskFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "priority":
			query = query.Where("priority = ?", value)
		}
	}
	return query
}

// Ensure GormTaskRepository implements TaskRepository
var _ enrichment.TaskRepository = (*GormTaskRepository)(nil)
