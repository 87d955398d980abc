// Package gormstore persists documents in a single entities table: generated
// bigint keys, a kind column, and the document itself as jsonb. Field
// filters go through datatypes.JSONQuery so the store also runs on sqlite
// in tests.
package gormstore

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"transit_issues/internal/storage"
)

type entity struct {
	ID   int64          `gorm:"primaryKey;autoIncrement"`
	Kind string         `gorm:"index;size:64;not null"`
	Doc  datatypes.JSON `gorm:"not null"`
}

func (entity) TableName() string { return "entities" }

type Store struct {
	db *gorm.DB
}

var _ storage.Store = (*Store)(nil)

// Open connects to Postgres and prepares the entities table.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return New(db)
}

// New wraps an existing gorm handle (tests use sqlite here).
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&entity{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Create(ctx context.Context, kind string, doc any) (int64, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return 0, err
	}
	row := entity{Kind: kind, Doc: datatypes.JSON(raw)}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (s *Store) Get(ctx context.Context, kind string, id int64, dst any) error {
	var row entity
	err := s.db.WithContext(ctx).Where("kind = ?", kind).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.ErrNoEntity
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(row.Doc, dst)
}

func (s *Store) Save(ctx context.Context, kind string, id int64, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Model(&entity{}).
		Where("id = ? AND kind = ?", id, kind).
		Update("doc", datatypes.JSON(raw)).Error
}

func (s *Store) Delete(ctx context.Context, kind string, id int64) error {
	return s.db.WithContext(ctx).
		Where("kind = ?", kind).
		Delete(&entity{}, id).Error
}

func (s *Store) Query(ctx context.Context, kind string, filter *storage.Filter, limit int, cursor string) ([]storage.Entity, storage.Page, error) {
	offset, err := storage.DecodeCursor(cursor)
	if err != nil {
		return nil, storage.Page{}, err
	}

	tx := s.db.WithContext(ctx).Model(&entity{}).Where("kind = ?", kind)
	if filter != nil {
		tx = tx.Where(datatypes.JSONQuery("doc").Equals(filter.Value, filter.Field))
	}
	tx = tx.Order("id asc").Offset(offset)
	if limit > 0 {
		// Look one row past the page to derive the more-results flag.
		tx = tx.Limit(limit + 1)
	}

	var rows []entity
	if err := tx.Find(&rows).Error; err != nil {
		return nil, storage.Page{}, err
	}

	page := storage.Page{}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
		page.More = true
		page.EndCursor = storage.EncodeCursor(offset + limit)
	}

	out := make([]storage.Entity, len(rows))
	for i, r := range rows {
		out[i] = storage.Entity{ID: r.ID, Doc: json.RawMessage(r.Doc)}
	}
	return out, page, nil
}

func (s *Store) Count(ctx context.Context, kind string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&entity{}).Where("kind = ?", kind).Count(&n).Error
	return n, err
}
