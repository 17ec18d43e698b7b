package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash *string        `gorm:"type:varchar(255)"`
	FullName     string         `gorm:"type:varchar(255);not null"`
	Role         string         `gorm:"type:varchar(20);not null;index"`
	IsActive     bool           `gorm:"not null;default:true"`
	AdminId      *uuid.UUID     `gorm:"type:uuid;index"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

type ParentStudent struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ParentId  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_parent_student,priority:1"`
	StudentId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_parent_student,priority:2;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ParentStudent) TableName() string {
	return "parent_students"
}
