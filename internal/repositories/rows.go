package repository

import (
	"time"

	"task-tracker.com/task-tracker/internal/constants"
)

type taskRow struct {
	ID          string               `gorm:"primaryKey;size:36"`
	Title       string               `gorm:"not null"`
	Description string               `gorm:"not null"`
	Status      constants.TaskStatus `gorm:"type:varchar(20);not null;index"`
	Priority    constants.Priority   `gorm:"type:varchar(10);not null"`
	AssignedTo  string               `gorm:"size:255;index"`
	DueDate     string               `gorm:"size:10"`
	CreatedAt   *time.Time           `gorm:"index;precision:6;autoCreateTime:false"`
	UpdatedAt   *time.Time           `gorm:"precision:6;autoUpdateTime:false"`
}

func (taskRow) TableName() string { return "tasks" }

type accountRow struct {
	UID          string    `gorm:"primaryKey;size:36"`
	Email        string    `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"precision:6;autoCreateTime:false"`
}

func (accountRow) TableName() string { return "accounts" }

type profileRow struct {
	UID       string         `gorm:"primaryKey;size:36"`
	Email     string         `gorm:"size:255;not null"`
	Role      constants.Role `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time      `gorm:"precision:6;autoCreateTime:false"`
}

func (profileRow) TableName() string { return "profiles" }
