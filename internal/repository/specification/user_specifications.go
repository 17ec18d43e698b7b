package specification

import (
	"gorm.io/gorm"

	"github.com/google/uuid"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// OwnedByAdmin matches accounts belonging to a tenant admin.
type OwnedByAdmin struct {
	AdminID uuid.UUID
}

func (s OwnedByAdmin) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("admin_id = ?", s.AdminID)
}

type WithRoles struct {
	Roles []string
}

func (s WithRoles) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("role IN ?", s.Roles)
}

type ByStudent struct {
	StudentID uuid.UUID
}

func (s ByStudent) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("student_id = ?", s.StudentID)
}

type ByParent struct {
	ParentID uuid.UUID
}

func (s ByParent) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("parent_id = ?", s.ParentID)
}
