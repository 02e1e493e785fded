package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"task-tracker.com/task-tracker/internal/backend"
)

// ProfileRepository writes the profile side record created at sign-up. It is
// never read back by the application; roles are derived from the email.
type ProfileRepository struct {
	db    *gorm.DB
	clock *serverClock
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db, clock: newServerClock(nil)}
}

func (r *ProfileRepository) SetProfile(ctx context.Context, uid string, profile backend.Profile) error {
	row := &profileRow{
		UID:       uid,
		Email:     profile.Email,
		Role:      profile.Role,
		CreatedAt: r.clock.Next(),
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(row).Error
}
