package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"factoryfloor/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if err := ready(r.db, "montaza"); err != nil {
		return err
	}
	u.Username = strings.TrimSpace(u.Username)

	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Where("username = ?", u.Username).Count(&n).Error; err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if n > 0 {
		return domain.Conflictf("username '%s' already exists", u.Username)
	}

	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("username '%s' already exists", u.Username)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if err := ready(r.db, "montaza"); err != nil {
		return nil, err
	}
	var u domain.User
	err := r.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).Take(&u).Error
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if err := ready(r.db, "montaza"); err != nil {
		return nil, err
	}
	var u domain.User
	if err := r.db.WithContext(ctx).Take(&u, id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

// List returns every user ordered by username.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	if err := ready(r.db, "montaza"); err != nil {
		return nil, err
	}
	out := []domain.User{}
	if err := r.db.WithContext(ctx).Order("username").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

// Update sets the role and, when passwordHash is non-empty, the password.
func (r *UserRepository) Update(ctx context.Context, id int64, role domain.UserRole, passwordHash string) error {
	if err := ready(r.db, "montaza"); err != nil {
		return err
	}
	fields := map[string]any{"role": role}
	if passwordHash != "" {
		fields["password_hash"] = passwordHash
	}
	tx := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return fmt.Errorf("update user: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return domain.NotFoundf("user not found")
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if err := ready(r.db, "montaza"); err != nil {
		return err
	}
	tx := r.db.WithContext(ctx).Delete(&domain.User{}, id)
	if tx.Error != nil {
		return fmt.Errorf("delete user: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return domain.NotFoundf("user not found")
	}
	return nil
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFoundf("%s not found", what)
	}
	return fmt.Errorf("get %s: %w", what, err)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
