package database

import (
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"rsvphub/config"
)

var DB *gorm.DB

// Connect opens the database. Postgres is the default; setting SQLITE_PATH
// switches to an embedded SQLite file for local development.
// TranslateError is on so duplicate-key violations surface as
// gorm.ErrDuplicatedKey regardless of driver.
func Connect(cfg *config.Config) {
	var (
		db  *gorm.DB
		err error
	)

	gormCfg := &gorm.Config{TranslateError: true}

	if cfg.SQLitePath != "" {
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	} else {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	DB = db
	fmt.Println("Database connected")
}
