package repository

import (
	"context"

	"flowinvoice/internal/model"

	"gorm.io/gorm"
)

type ImportErrorRepository interface {
	CreateBatch(ctx context.Context, entries []model.ImportError) error
	List(ctx context.Context, errorType string, page, limit int) ([]model.ImportError, int64, error)
}

type importErrorRepository struct {
	db *gorm.DB
}

func NewImportErrorRepository(db *gorm.DB) ImportErrorRepository {
	return &importErrorRepository{db: db}
}

func (r *importErrorRepository) CreateBatch(ctx context.Context, entries []model.ImportError) error {
	if len(entries) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).CreateInBatches(entries, createBatchSize).Error
}

func (r *importErrorRepository) List(ctx context.Context, errorType string, page, limit int) ([]model.ImportError, int64, error) {
	var entries []model.ImportError
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.ImportError{})
	if errorType != "" {
		query = query.Where("error_type = ?", errorType)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	fetch := db.Order("logged_at desc")
	if errorType != "" {
		fetch = fetch.Where("error_type = ?", errorType)
	}
	offset := (page - 1) * limit
	if err := fetch.Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
