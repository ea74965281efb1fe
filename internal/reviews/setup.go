package reviews

import (
	"fmt"

	"github.com/RateMyJudge/RMJ-Backend/internal/db"
	"gorm.io/gorm"
)

// Init creates the ledger schema and migrates the reviews table. It must run
// after judges.Init because reviews reference directory.judges(slug).
func Init(d *gorm.DB) error {
	if err := db.EnsureSchema(d, "ledger"); err != nil {
		return fmt.Errorf("ensure schema ledger: %w", err)
	}

	if err := d.AutoMigrate(&Review{}); err != nil {
		return fmt.Errorf("auto-migrate ledger tables: %w", err)
	}

	if err := d.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'fk_reviews_judge_slug'
			) THEN
				ALTER TABLE ledger.reviews
				ADD CONSTRAINT fk_reviews_judge_slug
				FOREIGN KEY (judge_id) REFERENCES directory.judges (slug);
			END IF;
		END $$;
	`).Error; err != nil {
		return fmt.Errorf("create fk_reviews_judge_slug: %w", err)
	}

	if err := d.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reviews_judge_created
		ON ledger.reviews (judge_id, created_at);
	`).Error; err != nil {
		return fmt.Errorf("create idx_reviews_judge_created: %w", err)
	}
	return nil
}
