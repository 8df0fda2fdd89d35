// Copyright 2025 The TaskStream Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// DatabaseStore is a GORM-backed Store. The caller supplies an opened
// *gorm.DB so the choice of driver stays outside this package.
type DatabaseStore struct {
	db          *gorm.DB
	createTable bool
}

var _ Store = (*DatabaseStore)(nil)

// DatabaseStoreConfig holds configuration for a DatabaseStore.
type DatabaseStoreConfig struct {
	DB          *gorm.DB
	CreateTable bool
}

// NewDatabaseStore creates a new DatabaseStore.
func NewDatabaseStore(config DatabaseStoreConfig) (*DatabaseStore, error) {
	if config.DB == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}
	return &DatabaseStore{
		db:          config.DB,
		createTable: config.CreateTable,
	}, nil
}

// Initialize migrates the task record table when table creation is enabled.
func (s *DatabaseStore) Initialize(ctx context.Context) error {
	if !s.createTable {
		return nil
	}
	if err := s.db.WithContext(ctx).AutoMigrate(&Record{}); err != nil {
		return NewStoreError("initialize", "", err)
	}
	return nil
}

// Save inserts or updates a record keyed by its task ID.
func (s *DatabaseStore) Save(ctx context.Context, record *Record) error {
	if record == nil {
		return NewStoreError("save", "", fmt.Errorf("record cannot be nil"))
	}
	if record.TaskID == "" {
		return NewStoreError("save", "", fmt.Errorf("record task ID cannot be empty"))
	}

	if err := s.db.WithContext(ctx).Save(record).Error; err != nil {
		return NewStoreError("save", record.TaskID, err)
	}
	return nil
}

// Get retrieves the record for a task.
func (s *DatabaseStore) Get(ctx context.Context, taskID string) (*Record, error) {
	var record Record
	err := s.db.WithContext(ctx).First(&record, "task_id = ?", taskID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewRecordNotFoundError(taskID)
		}
		return nil, NewStoreError("get", taskID, err)
	}
	return &record, nil
}

// List returns records, optionally filtered by context ID, in creation order.
func (s *DatabaseStore) List(ctx context.Context, contextID string, limit, offset int) ([]*Record, error) {
	query := s.db.WithContext(ctx).Model(&Record{}).Order("created_at, task_id")
	if contextID != "" {
		query = query.Where("context_id = ?", contextID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var records []*Record
	if err := query.Find(&records).Error; err != nil {
		return nil, NewStoreError("list", "", err)
	}
	return records, nil
}

// Count returns the number of records, optionally filtered by context ID.
func (s *DatabaseStore) Count(ctx context.Context, contextID string) (int64, error) {
	query := s.db.WithContext(ctx).Model(&Record{})
	if contextID != "" {
		query = query.Where("context_id = ?", contextID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, NewStoreError("count", "", err)
	}
	return count, nil
}

// Delete removes the record for a task.
func (s *DatabaseStore) Delete(ctx context.Context, taskID string) error {
	result := s.db.WithContext(ctx).Delete(&Record{}, "task_id = ?", taskID)
	if result.Error != nil {
		return NewStoreError("delete", taskID, result.Error)
	}
	if result.RowsAffected == 0 {
		return NewRecordNotFoundError(taskID)
	}
	return nil
}

// Close shuts down the underlying connection pool.
func (s *DatabaseStore) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return NewStoreError("close", "", err)
	}
	if err := sqlDB.Close(); err != nil {
		return NewStoreError("close", "", err)
	}
	return nil
}
