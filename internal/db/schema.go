package db

import (
	"github.com/jackc/pgx/v5"
	"gorm.io/gorm"
)

// EnsureSchema creates schema if it is missing. Feature packages call it from
// Init before migrating their tables.
func EnsureSchema(d *gorm.DB, schema string) error {
	return d.Exec("CREATE SCHEMA IF NOT EXISTS " + pgx.Identifier{schema}.Sanitize()).Error
}
