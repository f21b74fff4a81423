package entities

import "time"

// StockMetric is one row of the screener universe: a single metric value
// for one ticker. The screener pivots these rows into the tabular result.
type StockMetric struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Ticker      string  `gorm:"type:varchar(16);uniqueIndex:idx_stock_metric_ticker_name;not null"`
	CompanyName string  `gorm:"type:varchar(128)"`
	Metric      string  `gorm:"type:varchar(64);uniqueIndex:idx_stock_metric_ticker_name;index;not null"`
	Value       float64 `gorm:"not null"`
}

// TableName specifies the table name for StockMetric.
func (StockMetric) TableName() string {
	return "stock_metrics"
}
