package repository

import (
	"context"
	"fmt"

	"flowinvoice/internal/model"

	"gorm.io/gorm"
)

// ReportRepository runs aggregate queries for the receivables reports.
type ReportRepository interface {
	CountByPaymentStatus(ctx context.Context) ([]model.PaymentStatusCount, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// CountByPaymentStatus counts consistent invoices per stored payment status.
func (r *reportRepository) CountByPaymentStatus(ctx context.Context) ([]model.PaymentStatusCount, error) {
	var rows []model.PaymentStatusCount
	if err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Select("payment_status, COUNT(*) as count").
		Where("is_consistent = ?", true).
		Group("payment_status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count invoices by payment status: %w", err)
	}
	return rows, nil
}
