package services

import (
	"context"

	"github.com/matiasfalconaro/Tkinter-expense-manager/internal/core"
)

// MonthlyTotal returns the accumulated subtotal for the given 1-12 month,
// recomputed from current store contents on every call.
func (m *Manager) MonthlyTotal(ctx context.Context, month int) (core.Money, error) {
	return m.store.MonthTotal(ctx, month)
}

// CategoryBreakdown returns per-category subtotal sums for the given month.
// Categories with no records that month are absent; the presentation layer
// zero-fills against core.Categories.
func (m *Manager) CategoryBreakdown(ctx context.Context, month int) ([]core.CategoryAmount, error) {
	return m.store.CategorySums(ctx, month)
}

// MonthOverview bundles the monthly total with the category breakdown for
// the overview panel.
func (m *Manager) MonthOverview(ctx context.Context, month int) (core.MonthOverview, error) {
	total, err := m.store.MonthTotal(ctx, month)
	if err != nil {
		return core.MonthOverview{}, err
	}
	byCategory, err := m.store.CategorySums(ctx, month)
	if err != nil {
		return core.MonthOverview{}, err
	}
	return core.MonthOverview{
		Month:      month,
		Total:      total,
		ByCategory: byCategory,
	}, nil
}
