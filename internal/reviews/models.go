package reviews

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is an immutable rating of one judge. JudgeID holds the judge's slug.
type Review struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JudgeID       string    `gorm:"not null;index" json:"judgeId"`
	Comment       string    `gorm:"type:text;not null" json:"comment"`
	Rating        int       `gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5" json:"rating"`
	SubmitterHash string    `gorm:"index" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Review) TableName() string {
	return "ledger.reviews"
}
