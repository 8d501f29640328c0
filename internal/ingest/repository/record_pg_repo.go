package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"video_ingest_service/internal/ingest/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordPGRepo definition primary record store on postgreSQL
type RecordPGRepo interface {
	RecordRepo
	AutoMigrate() error
}

type recordPGRepo struct {
	db    *gorm.DB
	table string
}

// NewRecordPGRepo create RecordPGRepo, table is the logical record table ("Video posts")
func NewRecordPGRepo(db *gorm.DB, table string) RecordPGRepo {
	return &recordPGRepo{db: db, table: table}
}

// AutoMigrate create or update the video_posts table
func (r *recordPGRepo) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.VideoPost{})
}

// Upsert merge fields into the row for (table, title), creating it if needed.
// Existing fields not present in the new record are kept.
func (r *recordPGRepo) Upsert(ctx context.Context, title string, fields domain.MetadataRecord) (*domain.StoredRecord, error) {
	fields = fields.Normalize()
	var post domain.VideoPost

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 同 title 的 row 先鎖住再合併
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("table_name = ? AND title = ?", r.table, title).
			First(&post).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if errors.Is(err, gorm.ErrRecordNotFound) {
			post = domain.VideoPost{
				RecordTable: r.table,
				Title:       title,
				Fields:      datatypes.JSONMap(fields),
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&post)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				return nil
			}
			// 併發建立時，改為讀取既有的 row 再合併
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("table_name = ? AND title = ?", r.table, title).
				First(&post).Error; err != nil {
				return err
			}
		}

		if post.Fields == nil {
			post.Fields = datatypes.JSONMap{}
		}
		for k, v := range fields {
			post.Fields[k] = v
		}
		return tx.Model(&post).Update("fields", post.Fields).Error
	})
	if err != nil {
		return nil, fmt.Errorf("primary upsert [%s]: %w", title, err)
	}

	return &domain.StoredRecord{
		ID:     strconv.FormatUint(uint64(post.ID), 10),
		Fields: map[string]any(post.Fields),
	}, nil
}
