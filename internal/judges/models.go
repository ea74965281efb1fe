package judges

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Judge is a directory entry. Slug is derived from Name and is the natural
// key used by routes and by reviews.
type Judge struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Slug      string         `gorm:"uniqueIndex;not null" json:"slug"`
	Circuits  pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"circuits"`
	Timestamp time.Time      `gorm:"autoCreateTime;not null" json:"timestamp"`
}

func (Judge) TableName() string {
	return "directory.judges"
}
