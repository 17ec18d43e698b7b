package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ForReceiver struct {
	ReceiverID uuid.UUID
}

func (s ForReceiver) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("receiver_id = ?", s.ReceiverID)
}

type Unread struct{}

func (s Unread) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_read = ?", false)
}

type CreatedSince struct {
	Since time.Time
}

func (s CreatedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at >= ?", s.Since)
}
