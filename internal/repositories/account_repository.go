package repository

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"task-tracker.com/task-tracker/internal/backend"
	apperrors "task-tracker.com/task-tracker/internal/errors"
)

const minPasswordLength = 6

type AccountRepository struct {
	db    *gorm.DB
	clock *serverClock
	cost  int
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{
		db:    db,
		clock: newServerClock(nil),
		cost:  bcrypt.DefaultCost,
	}
}

// NewAuthClient returns an auth client with its own signed-in user, the way
// each browser tab holds its own session.
func (r *AccountRepository) NewAuthClient() backend.Authenticator {
	return newAuthClient(r)
}

func (r *AccountRepository) Create(ctx context.Context, email, password string) (backend.Identity, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return backend.Identity{}, err
	}
	if len(password) < minPasswordLength {
		return backend.Identity{}, apperrors.NewAuthError(apperrors.CodeWeakPassword, "Password should be at least 6 characters")
	}

	var existing int64
	if err := r.db.WithContext(ctx).Model(&accountRow{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return backend.Identity{}, internalAuthError(err)
	}
	if existing > 0 {
		return backend.Identity{}, apperrors.NewAuthError(apperrors.CodeEmailInUse, "The email address is already in use by another account")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		return backend.Identity{}, internalAuthError(err)
	}

	row := &accountRow{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    r.clock.Next(),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return backend.Identity{}, apperrors.NewAuthError(apperrors.CodeEmailInUse, "The email address is already in use by another account")
		}
		return backend.Identity{}, internalAuthError(err)
	}

	return backend.Identity{UID: row.UID, Email: row.Email}, nil
}

func (r *AccountRepository) Authenticate(ctx context.Context, email, password string) (backend.Identity, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return backend.Identity{}, err
	}

	var row accountRow
	if err := r.db.WithContext(ctx).First(&row, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return backend.Identity{}, apperrors.NewAuthError(apperrors.CodeUserNotFound, "There is no user record corresponding to this identifier")
		}
		return backend.Identity{}, internalAuthError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		return backend.Identity{}, apperrors.NewAuthError(apperrors.CodeWrongPassword, "The password is invalid")
	}

	return backend.Identity{UID: row.UID, Email: row.Email}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperrors.NewAuthError(apperrors.CodeInvalidEmail, "The email address is badly formatted")
	}
	return email, nil
}

func internalAuthError(err error) error {
	return apperrors.NewAuthError(apperrors.CodeInternal, err.Error())
}
