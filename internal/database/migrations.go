package database

import (
	"errors"
	"time"

	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/kvstore"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	migrationPurgeBlankEntries   = "2026-05-01_purge_blank_entries"
	migrationBackfillUpdatedTime = "2026-05-08_backfill_entry_updated_time"
)

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB) error
}

func applyMigrations(db *gorm.DB, logger *zap.Logger) error {
	migrations := []migrationDefinition{
		{name: migrationPurgeBlankEntries, apply: purgeBlankEntries},
		{name: migrationBackfillUpdatedTime, apply: backfillUpdatedTime},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := migration.apply(db); err != nil {
			return err
		}
		appliedAt := time.Now().UTC().Unix()
		if err := db.Create(&migrationRecord{Name: migration.name, AppliedAtSeconds: appliedAt}).Error; err != nil {
			return err
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

// Blank and JSON null values decode to nothing; removing them lets readers
// fall back to their defaults.
func purgeBlankEntries(db *gorm.DB) error {
	return db.Where("TRIM(entry_value) IN ?", []string{"", "null"}).
		Delete(&kvstore.Entry{}).Error
}

func backfillUpdatedTime(db *gorm.DB) error {
	return db.Model(&kvstore.Entry{}).
		Where("updated_at_s = 0").
		Update("updated_at_s", time.Now().UTC().Unix()).Error
}
