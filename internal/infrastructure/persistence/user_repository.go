package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return shared.NewStoreError("user.create", err)
	}
	model.CopyTo(&user.BaseEntity)
	return nil
}

// Update updates an existing user
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	result := r.db.WithContext(ctx).Model(model).Select("*").Omit("created_at").Updates(model)
	if result.Error != nil {
		return shared.NewStoreError("user.update", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("User", user.ID)
	}
	user.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id int64) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, storeError("user.find", "User", id, err)
	}
	return model.ToDomain(), nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	var model models.UserModel
	err := r.db.WithContext(ctx).
		Where("username = ?", strings.ToLower(strings.TrimSpace(username))).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.NewStoreError("user.find_by_username", err)
	}
	return model.ToDomain(), nil
}

// FindAll returns users matching the filter with pagination
func (r *GormUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]*identity.User, int64, error) {
	var userModels []*models.UserModel
	var total int64

	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.UserModel{}), filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, shared.NewStoreError("user.count", err)
	}

	query = userSort.order(query, filter.SortBy, filter.SortOrder)

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if err := query.Find(&userModels).Error; err != nil {
		return nil, 0, shared.NewStoreError("user.list", err)
	}

	users := make([]*identity.User, len(userModels))
	for i, model := range userModels {
		users[i] = model.ToDomain()
	}
	return users, total, nil
}

// ExistsByUsername checks if a username already exists
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("username = ?", strings.ToLower(strings.TrimSpace(username))).
		Count(&count).Error
	if err != nil {
		return false, shared.NewStoreError("user.exists", err)
	}
	return count > 0, nil
}

func (r *GormUserRepository) applyFilter(query *gorm.DB, filter identity.UserFilter) *gorm.DB {
	if filter.Keyword != "" {
		pattern := likePattern(filter.Keyword)
		query = query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(name) LIKE ?",
			pattern, pattern, pattern)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.TeamID != nil {
		query = query.Where("team_id = ?", *filter.TeamID)
	}
	return query
}

// Ensure GormUserRepository implements UserRepository
var _ identity.UserRepository = (*GormUserRepository)(nil)

// GormTeamRepository implements TeamRepository using GORM
type GormTeamRepository struct {
	db *gorm.DB
}

// NewGormTeamRepository creates a new GormTeamRepository
func NewGormTeamRepository(db *gorm.DB) *GormTeamRepository {
	return &GormTeamRepository{db: db}
}

// Create creates a team
func (r *GormTeamRepository) Create(ctx context.Context, team *identity.Team) error {
	model := models.TeamModelFromDomain(team)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return shared.NewStoreError("team.create", err)
	}
	model.CopyTo(&team.BaseEntity)
	return nil
}

// FindByID finds a team by ID
func (r *GormTeamRepository) FindByID(ctx context.Context, id int64) (*identity.Team, error) {
	var model models.TeamModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, storeError("team.find", "Team", id, err)
	}
	return model.ToDomain(), nil
}

// FindAll returns every team ordered by name
func (r *GormTeamRepository) FindAll(ctx context.Context) ([]*identity.Team, error) {
	var teamModels []models.TeamModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&teamModels).Error; err != nil {
		return nil, shared.NewStoreError("team.list", err)
	}
	teams := make([]*identity.Team, len(teamModels))
	for i := range teamModels {
		teams[i] = teamModels[i].ToDomain()
	}
	return teams, nil
}

// Ensure GormTeamRepository implements TeamRepository
var _ identity.TeamRepository = (*GormTeamRepository)(nil)
