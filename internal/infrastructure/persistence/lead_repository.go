package persistence

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/lead"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLeadRepository implements LeadRepository using GORM
type GormLeadRepository struct {
	db *gorm.DB
}

// NewGormLeadRepository creates a new GormLeadRepository
func NewGormLeadRepository(db *gorm.DB) *GormLeadRepository {
	return &GormLeadRepository{db: db}
}

// FindByID finds a lead by its ID
func (r *GormLeadRepository) FindByID(ctx context.Context, id int64) (*lead.Lead, error) {
	var model models.LeadModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, storeError("lead.find", "Lead", id, err)
	}
	return model.ToDomain(), nil
}

// FindAll finds leads matching the filter
func (r *GormLeadRepository) FindAll(ctx context.Context, filter shared.Filter) ([]lead.Lead, error) {
	var leadModels []models.LeadModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.LeadModel{}), filter)

	if err := query.Find(&leadModels).Error; err != nil {
		return nil, shared.NewStoreError("lead.list", err)
	}

	leads := make([]lead.Lead, len(leadModels))
	for i, model := range leadModels {
		leads[i] = *model.ToDomain()
	}
	return leads, nil
}

// Count counts leads matching the filter
func (r *GormLeadRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.LeadModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, shared.NewStoreError("lead.count", err)
	}
	return count, nil
}

// Exists reports whether a lead with the ID exists
func (r *GormLeadRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.LeadModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, shared.NewStoreError("lead.exists", err)
	}
	return count > 0, nil
}

// Save creates a lead or updates it with optimistic locking.
// The update only lands while the stored version still equals l.Version;
// on success l.Version moves to the new stored version.
func (r *GormLeadRepository) Save(ctx context.Context, l *lead.Lead) error {
	model := models.LeadModelFromDomain(l)

	if l.IsNew() {
		if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
			return shared.NewStoreError("lead.save", err)
		}
		model.CopyTo(&l.BaseEntity)
		return nil
	}

	model.Version = l.Version + 1
	result := r.db.WithContext(ctx).
		Model(&models.LeadModel{}).
		Where("id = ? AND version = ?", l.ID, l.Version).
		Updates(model.UpdateColumns())
	if result.Error != nil {
		return shared.NewStoreError("lead.save", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.staleOrMissing(ctx, l.ID)
	}

	l.Version = model.Version
	return nil
}

// Touch bumps updated_at and version without rewriting the lead's fields,
// so appending a note never overwrites a concurrent edit.
func (r *GormLeadRepository) Touch(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.LeadModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return shared.NewStoreError("lead.touch", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Lead", id)
	}
	return nil
}

func (r *GormLeadRepository) staleOrMissing(ctx context.Context, id int64) error {
	exists, err := r.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewNotFoundError("Lead", id)
	}
	return shared.NewConflictError("Lead", id)
}

func (r *GormLeadRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	return leadSort.order(query, filter.OrderBy, filter.OrderDir)
}

func (r *GormLeadRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?",
			pattern, pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		case "stage_id":
			query = query.Where("stage_id = ?", value)
		case "assigned_user_id":
			query = query.Where("assigned_user_id = ?", value)
		case "source_id":
			query = query.Where("source_id = ?", value)
		}
	}

	return query
}

// Ensure GormLeadRepository implements LeadRepository
var _ lead.LeadRepository = (*GormLeadRepository)(nil)
