package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActiveDefinitions struct{}

func (s ActiveDefinitions) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

type ByDefinition struct {
	DefinitionID uuid.UUID
}

func (s ByDefinition) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("fee_definition_id = ?", s.DefinitionID)
}

// ForPeriod matches fees billed for a calendar month.
type ForPeriod struct {
	Month int
	Year  int
}

func (s ForPeriod) Apply(db *gorm.DB) *gorm.DB {
	if s.Month > 0 {
		db = db.Where("month = ?", s.Month)
	}
	if s.Year > 0 {
		db = db.Where("year = ?", s.Year)
	}
	return db
}

type ForStudents struct {
	StudentIDs []uuid.UUID
}

func (s ForStudents) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("student_id IN ?", s.StudentIDs)
}

type DueBefore struct {
	Before time.Time
}

func (s DueBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("due_date < ?", s.Before)
}
