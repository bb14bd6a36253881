// Package database owns the SQLite connection and schema migration.
// Per-area repositories live in subpackages and share the same *gorm.DB.
package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bookshelf/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Genre{},
		&entities.Book{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

// defaultGenres are created on first run so the genre picker is never
// empty before the user has added anything.
var defaultGenres = []string{
	"Fiction", "Non-Fiction", "Science Fiction", "Fantasy", "Mystery",
	"Biography", "History", "Poetry",
}

// EnsureDefaultGenres seeds the starter genre set when the table is empty.
func (d *Database) EnsureDefaultGenres() error {
	var count int64
	if err := d.DB.Model(&entities.Genre{}).Count(&count).Error; err != nil {
		return fmt.Errorf("counting genres: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, name := range defaultGenres {
		if err := d.DB.Create(&entities.Genre{Name: name}).Error; err != nil {
			return fmt.Errorf("seeding genre %q: %w", name, err)
		}
	}
	log.Printf("Seeded %d default genres", len(defaultGenres))
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
