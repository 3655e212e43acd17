// database/bootstrap.go
package database

import (
	"fmt"
	"strings"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rajeev-sr/iPlanFarmHouse/entities"
)

// OpenSQLite opens the database at path and brings the schema up to date.
func OpenSQLite(path string, debug bool) (*gorm.DB, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}
	db, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		// assignees are checked for presence only; tasks may outlive a user row
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.AutoMigrate(&entities.User{}, &entities.Task{}); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	if err := normalizeStatuses(db); err != nil {
		return nil, fmt.Errorf("normalize statuses: %w", err)
	}
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("db.DB(): %w", err)
	}
	return sqlDB.Close()
}

func dsn(path string) string {
	pragmas := "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	if strings.Contains(path, "?") {
		return path + "&" + pragmas
	}
	return path + "?" + pragmas
}

// normalizeStatuses repairs rows written straight into the tasks table by
// spreadsheet tools or hand-run SQL, which tend to use todo|done|skipped.
// Those become pending|completed, and completed rows without a completion
// date take the day they were last updated.
func normalizeStatuses(db *gorm.DB) error {
	var odd int64
	err := db.Model(&entities.Task{}).
		Where("status IS NULL OR status NOT IN ?", []string{entities.StatusPending, entities.StatusCompleted}).
		Count(&odd).Error
	if err != nil {
		return fmt.Errorf("count unknown statuses: %w", err)
	}
	if odd == 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`UPDATE tasks SET status = ? WHERE status IN ('done', 'skipped')`,
			entities.StatusCompleted).Error; err != nil {
			return err
		}
		if err := tx.Exec(`UPDATE tasks SET completion_date = substr(updated_at, 1, 10)
			WHERE status = ? AND completion_date IS NULL`, entities.StatusCompleted).Error; err != nil {
			return err
		}
		// anything else (todo, blank, unknown) is still open
		if err := tx.Exec(`UPDATE tasks SET status = ? WHERE status IS NULL OR status <> ?`,
			entities.StatusPending, entities.StatusCompleted).Error; err != nil {
			return err
		}
		return nil
	})
}
