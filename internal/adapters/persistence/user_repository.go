package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/user"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID retrieves a user by id, or nil if it does not exist
func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByEmail retrieves a user by normalized email, or nil if it does not exist
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, "email = ?", user.NormalizeEmail(email))
}

// Add persists a new user
func (r *GormUserRepository) Add(ctx context.Context, u *user.User) error {
	model, err := r.userToModel(u)
	if err != nil {
		return fmt.Errorf("failed to convert user to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &shared.DomainError{Kind: shared.ErrConflict, Message: "user already exists", Cause: err}
		}
		return fmt.Errorf("failed to add user: %w", err)
	}
	return nil
}

func (r *GormUserRepository) findOne(ctx context.Context, where string, arg interface{}) (*user.User, error) {
	var model UserModel
	result := r.db.WithContext(ctx).Where(where, arg).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user: %w", result.Error)
	}
	return r.modelToUser(&model)
}

func (r *GormUserRepository) modelToUser(model *UserModel) (*user.User, error) {
	var roles []user.Role
	if model.Roles != "" {
		if err := json.Unmarshal([]byte(model.Roles), &roles); err != nil {
			return nil, fmt.Errorf("invalid roles for user %s: %w", model.ID, err)
		}
	}

	return &user.User{
		ID:           model.ID,
		Email:        model.Email,
		FirstName:    model.FirstName,
		LastName:     model.LastName,
		PasswordHash: model.PasswordHash,
		Roles:        roles,
		CreatedAt:    model.CreatedAt.UTC(),
	}, nil
}

func (r *GormUserRepository) userToModel(u *user.User) (*UserModel, error) {
	roles := u.Roles
	if roles == nil {
		roles = []user.Role{}
	}
	bytes, err := json.Marshal(roles)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal roles: %w", err)
	}

	return &UserModel{
		ID:           u.ID,
		Email:        user.NormalizeEmail(u.Email),
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		Roles:        string(bytes),
		CreatedAt:    u.CreatedAt,
	}, nil
}
