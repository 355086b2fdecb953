package store

import (
	"context"
	"database/sql"
)

// Summary feeds the dashboard header cards.
type Summary struct {
	SalesTotal    float64 `json:"sales_total"`
	SalesCount    int     `json:"sales_count"`
	IncomeTotal   float64 `json:"income_total"`
	ExpenseTotal  float64 `json:"expense_total"`
	ProductCount  int     `json:"product_count"`
	CustomerCount int     `json:"customer_count"`
}

// MonthlyFigures is one month of the reporting charts.
type MonthlyFigures struct {
	Month   int     `json:"month"`
	Sales   float64 `json:"sales"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// ReportRepo aggregates the figures behind the chart screens.
type ReportRepo struct {
	db *sql.DB
}

func NewReportRepo(db *sql.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

func (r *ReportRepo) Summary(ctx context.Context) (*Summary, error) {
	var s Summary
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE((SELECT SUM(total) FROM sales), 0),
			(SELECT COUNT(*) FROM sales),
			COALESCE((SELECT SUM(amount) FROM incomes), 0),
			COALESCE((SELECT SUM(amount) FROM expenses), 0),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM customers)
	`).Scan(&s.SalesTotal, &s.SalesCount, &s.IncomeTotal, &s.ExpenseTotal,
		&s.ProductCount, &s.CustomerCount)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Monthly returns twelve rows for the year, zero-filled for months with
// no activity, so the chart axis is always complete.
func (r *ReportRepo) Monthly(ctx context.Context, year int) ([]MonthlyFigures, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.month,
			COALESCE(s.total, 0),
			COALESCE(i.total, 0),
			COALESCE(e.total, 0)
		FROM generate_series(1, 12) AS m(month)
		LEFT JOIN (
			SELECT EXTRACT(MONTH FROM created_at)::int AS month, SUM(total) AS total
			FROM sales WHERE EXTRACT(YEAR FROM created_at) = $1 GROUP BY 1
		) s ON s.month = m.month
		LEFT JOIN (
			SELECT EXTRACT(MONTH FROM incurred_on)::int AS month, SUM(amount) AS total
			FROM incomes WHERE EXTRACT(YEAR FROM incurred_on) = $1 GROUP BY 1
		) i ON i.month = m.month
		LEFT JOIN (
			SELECT EXTRACT(MONTH FROM incurred_on)::int AS month, SUM(amount) AS total
			FROM expenses WHERE EXTRACT(YEAR FROM incurred_on) = $1 GROUP BY 1
		) e ON e.month = m.month
		ORDER BY m.month
	`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	figures := make([]MonthlyFigures, 0, 12)
	for rows.Next() {
		var f MonthlyFigures
		if err := rows.Scan(&f.Month, &f.Sales, &f.Income, &f.Expense); err != nil {
			return nil, err
		}
		figures = append(figures, f)
	}
	return figures, rows.Err()
}
