package kvstore

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const queryEntryKey = "entry_key = ?"

// Entry is the persisted row backing one key of the sqlite device.
type Entry struct {
	Key              string `gorm:"column:entry_key;primaryKey;size:190;not null"`
	Value            string `gorm:"column:entry_value;type:text;not null"`
	UpdatedAtSeconds int64  `gorm:"column:updated_at_s;not null"`
}

// TableName provides the explicit table binding for GORM.
func (Entry) TableName() string {
	return "kv_entries"
}

// SQLiteDevice stores entries in the kv_entries table.
type SQLiteDevice struct {
	db    *gorm.DB
	clock func() time.Time
}

// NewSQLiteDevice wraps an already migrated database handle.
func NewSQLiteDevice(db *gorm.DB, clock func() time.Time) (*SQLiteDevice, error) {
	if db == nil {
		return nil, fmt.Errorf("kvstore: database handle is required")
	}
	if clock == nil {
		clock = time.Now
	}
	return &SQLiteDevice{db: db, clock: clock}, nil
}

func (d *SQLiteDevice) Get(key string) (string, bool, error) {
	var entry Entry
	err := d.db.Where(queryEntryKey, key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (d *SQLiteDevice) Set(key, value string) error {
	entry := Entry{
		Key:              key,
		Value:            value,
		UpdatedAtSeconds: d.clock().UTC().Unix(),
	}
	return d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"entry_value", "updated_at_s"}),
	}).Create(&entry).Error
}

func (d *SQLiteDevice) Delete(key string) error {
	return d.db.Where(queryEntryKey, key).Delete(&Entry{}).Error
}
