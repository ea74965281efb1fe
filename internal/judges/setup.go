package judges

import (
	"fmt"

	"github.com/RateMyJudge/RMJ-Backend/internal/db"
	"gorm.io/gorm"
)

// Init creates the directory schema and migrates the judges table.
func Init(d *gorm.DB) error {
	if err := db.EnsureSchema(d, "directory"); err != nil {
		return fmt.Errorf("ensure schema directory: %w", err)
	}

	if err := d.AutoMigrate(&Judge{}); err != nil {
		return fmt.Errorf("auto-migrate directory tables: %w", err)
	}

	// ListAll returns judges in creation order.
	if err := d.Exec(`
		CREATE INDEX IF NOT EXISTS idx_judges_timestamp
		ON directory.judges (timestamp);
	`).Error; err != nil {
		return fmt.Errorf("create idx_judges_timestamp: %w", err)
	}
	return nil
}
