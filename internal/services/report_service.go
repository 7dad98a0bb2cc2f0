package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"centsimple/internal/daterange"
	apperrors "centsimple/internal/errors"
	"centsimple/internal/models"
)

// unknownCategoryName labels breakdown rows whose category id no longer
// resolves to a record. Categories are not hard-deleted while referenced, so
// this is a defensive fallback rather than an expected path.
const unknownCategoryName = "Unknown"

// reportService builds date-range-scoped summary reports.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// categorySum is one row of the group-by-category expense aggregate.
type categorySum struct {
	CategoryID *string
	Total      decimal.Decimal
}

// BuildReport resolves the date-range token and runs the underlying
// aggregates concurrently. Any aggregate failure fails the whole report;
// no partial report is ever returned.
func (s *reportService) BuildReport(ctx context.Context, userID, rangeToken string) (*Report, error) {
	dr := daterange.Resolve(rangeToken, time.Now())

	scoped := func(txType models.TransactionType) *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.Transaction{}).
			Where("user_id = ? AND type = ?", userID, txType)
		return dr.Apply(q, "date")
	}

	var (
		totalIncome   decimal.Decimal
		totalExpense  decimal.Decimal
		contributions decimal.Decimal
		withdrawals   decimal.Decimal
		rawBreakdown  []categorySum
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totalIncome, err = sumAmounts(scoped(models.TransactionTypeIncome))
		return err
	})
	g.Go(func() error {
		var err error
		totalExpense, err = sumAmounts(scoped(models.TransactionTypeExpense))
		return err
	})
	g.Go(func() error {
		var err error
		contributions, err = sumAmounts(scoped(models.TransactionTypeTransfer).Where("amount < 0"))
		return err
	})
	g.Go(func() error {
		var err error
		withdrawals, err = sumAmounts(scoped(models.TransactionTypeTransfer).Where("amount > 0"))
		return err
	})
	g.Go(func() error {
		if err := scoped(models.TransactionTypeExpense).
			Select("category_id, COALESCE(SUM(amount), 0) AS total").
			Group("category_id").
			Order("total DESC").
			Scan(&rawBreakdown).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	breakdown, err := s.resolveBreakdownNames(ctx, rawBreakdown)
	if err != nil {
		return nil, err
	}

	return &Report{
		NetEarnSpend:            totalIncome.Sub(totalExpense),
		TotalIncome:             totalIncome,
		TotalExpense:            totalExpense,
		ExpenseBreakdown:        breakdown,
		NetSavings:              contributions.Abs().Sub(withdrawals),
		TotalSavingContribution: contributions.Abs(),
		TotalSavingWithdrawal:   withdrawals,
		StartDate:               dr.Start,
		EndDate:                 dr.End,
	}, nil
}

// resolveBreakdownNames joins category names onto the aggregate rows after
// the group-by, preserving the descending-total order.
func (s *reportService) resolveBreakdownNames(ctx context.Context, rows []categorySum) ([]ExpenseBreakdownRow, error) {
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.CategoryID != nil {
			ids = append(ids, *row.CategoryID)
		}
	}

	names := make(map[string]string, len(ids))
	if len(ids) > 0 {
		var categories []models.Category
		if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, c := range categories {
			names[c.ID] = c.Name
		}
	}

	breakdown := make([]ExpenseBreakdownRow, 0, len(rows))
	for _, row := range rows {
		name := unknownCategoryName
		if row.CategoryID != nil {
			if n, ok := names[*row.CategoryID]; ok {
				name = n
			}
		}
		breakdown = append(breakdown, ExpenseBreakdownRow{
			CategoryID:   row.CategoryID,
			CategoryName: name,
			Total:        row.Total,
		})
	}
	return breakdown, nil
}
