package specification

import (
	"time"

	"gorm.io/gorm"
)

type EndsBefore struct {
	Before time.Time
}

func (s EndsBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("end_date < ?", s.Before)
}

// EndsBetween is inclusive on both bounds.
type EndsBetween struct {
	From time.Time
	To   time.Time
}

func (s EndsBetween) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("end_date >= ? AND end_date <= ?", s.From, s.To)
}
