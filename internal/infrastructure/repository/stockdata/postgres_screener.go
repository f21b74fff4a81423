package stockdata

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"newsagents/services/chat-api/internal/domain/workflow"
	"newsagents/services/chat-api/internal/infrastructure/database/entities"
	"newsagents/services/chat-api/internal/utils/apperrors"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// PostgresScreener answers structured screens from the stock_metrics table.
// Rows are stored one metric per row and pivoted into the tabular result.
type PostgresScreener struct {
	db *gorm.DB
}

// NewPostgresScreener constructs the screener.
func NewPostgresScreener(db *gorm.DB) *PostgresScreener {
	return &PostgresScreener{db: db}
}

// Screen executes the structured screen and returns the pivoted table.
func (s *PostgresScreener) Screen(ctx context.Context, screen workflow.ScreenRequest) (*workflow.ScreenResult, error) {
	metricSet := map[string]bool{}
	for _, m := range screen.Metrics {
		metricSet[m] = true
	}
	for _, f := range screen.Filters {
		metricSet[f.Metric] = true
	}
	if screen.SortBy != "" {
		metricSet[screen.SortBy] = true
	}
	if len(metricSet) == 0 {
		return &workflow.ScreenResult{Columns: []string{"ticker", "company_name"}}, nil
	}

	metricNames := make([]string, 0, len(metricSet))
	for m := range metricSet {
		metricNames = append(metricNames, m)
	}

	var rows []entities.StockMetric
	if err := s.db.WithContext(ctx).
		Where("metric IN ?", metricNames).
		Find(&rows).Error; err != nil {
		return nil, apperrors.New(ctx, apperrors.LayerRepository, apperrors.ErrorTypeDatabaseError,
			"failed to query stock metrics", err)
	}

	type pivotRow struct {
		company string
		values  map[string]float64
	}
	byTicker := map[string]*pivotRow{}
	for _, row := range rows {
		p, ok := byTicker[row.Ticker]
		if !ok {
			p = &pivotRow{company: row.CompanyName, values: map[string]float64{}}
			byTicker[row.Ticker] = p
		}
		p.values[row.Metric] = row.Value
	}

	tickers := make([]string, 0, len(byTicker))
	for ticker, p := range byTicker {
		if matchesAll(p.values, screen.Filters) {
			tickers = append(tickers, ticker)
		}
	}

	sortBy := screen.SortBy
	sort.Slice(tickers, func(i, j int) bool {
		if sortBy != "" {
			vi := byTicker[tickers[i]].values[sortBy]
			vj := byTicker[tickers[j]].values[sortBy]
			if vi != vj {
				if screen.SortDesc {
					return vi > vj
				}
				return vi < vj
			}
		}
		return tickers[i] < tickers[j]
	})

	limit := screen.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if len(tickers) > limit {
		tickers = tickers[:limit]
	}

	columns := append([]string{"ticker", "company_name"}, projectedColumns(screen, metricNames)...)
	result := &workflow.ScreenResult{
		Columns: columns,
		Rows:    make([]map[string]interface{}, 0, len(tickers)),
	}
	for _, ticker := range tickers {
		p := byTicker[ticker]
		row := map[string]interface{}{
			"ticker":       ticker,
			"company_name": p.company,
		}
		for _, col := range columns[2:] {
			if v, ok := p.values[col]; ok {
				row[col] = v
			}
		}
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}

func matchesAll(values map[string]float64, filters []workflow.MetricFilter) bool {
	for _, f := range filters {
		v, ok := values[f.Metric]
		if !ok {
			return false
		}
		switch f.Op {
		case "lt":
			if !(v < f.Value) {
				return false
			}
		case "lte":
			if !(v <= f.Value) {
				return false
			}
		case "gt":
			if !(v > f.Value) {
				return false
			}
		case "gte":
			if !(v >= f.Value) {
				return false
			}
		case "eq":
			if v != f.Value {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// projectedColumns returns the requested metrics, or every queried metric
// when the plan named none, in stable order.
func projectedColumns(screen workflow.ScreenRequest, queried []string) []string {
	cols := screen.Metrics
	if len(cols) == 0 {
		cols = queried
	}
	out := make([]string, len(cols))
	copy(out, cols)
	sort.Strings(out)
	return out
}
