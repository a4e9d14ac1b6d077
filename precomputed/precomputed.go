// Package precomputed serves forecasts that were produced offline and shipped as csv tables,
// one table per target with one column per entity.
package precomputed

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/aouyang1/go-salesforecaster/segment"
	"github.com/aouyang1/go-salesforecaster/timedataset"
)

var (
	ErrUnavailable        = errors.New("precomputed forecast unavailable for this selection")
	ErrNonPositiveHorizon = errors.New("horizon must be positive")
	ErrUnsupportedTarget  = errors.New("unsupported target")
)

// DateColumn is the index column of the precomputed tables
const DateColumn = "Date"

// Column returns the table column holding the forecast of an entity and target, e.g.
// "Region 1_Sales"
func Column(entity segment.Entity, target segment.Target) string {
	return fmt.Sprintf("%s_%s", entity, target)
}

// Store holds the precomputed tables. It is never modified after construction.
type Store struct {
	sales  *timedataset.Frame
	orders *timedataset.Frame
}

// NewStore copies the tables. A nil table means no precomputed forecasts for that target.
func NewStore(sales, orders *timedataset.Frame) *Store {
	return &Store{
		sales:  sales.Copy(),
		orders: orders.Copy(),
	}
}

// Load reads the sales and orders tables. A missing or unreadable table is logged and
// treated as empty so startup never fails on it.
func Load(salesPath, ordersPath string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		sales:  readTable(salesPath, logger),
		orders: readTable(ordersPath, logger),
	}
}

func readTable(path string, logger *slog.Logger) *timedataset.Frame {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("unable to open precomputed forecasts", "path", path, "error", err.Error())
		return nil
	}
	defer f.Close()

	frame, err := timedataset.ReadCSV(f, DateColumn)
	if err != nil {
		logger.Warn("unable to parse precomputed forecasts", "path", path, "error", err.Error())
		return nil
	}
	return frame
}

func (s *Store) table(target segment.Target) (*timedataset.Frame, error) {
	switch target {
	case segment.Sales:
		return s.sales, nil
	case segment.Orders:
		return s.orders, nil
	default:
		return nil, fmt.Errorf("%s, %w", target, ErrUnsupportedTarget)
	}
}

// Available returns the number of leading rows holding a value for the entity and target.
// Zero means nothing can be served.
func (s *Store) Available(entity segment.Entity, target segment.Target) int {
	table, err := s.table(target)
	if err != nil {
		return 0
	}
	col, exists := table.Column(Column(entity, target))
	if !exists {
		return 0
	}
	return leadingRun(col)
}

func leadingRun(col []float64) int {
	for i, v := range col {
		if math.IsNaN(v) {
			return i
		}
	}
	return len(col)
}

// Lookup returns the first horizon rows of the entity's forecast. When fewer rows are
// available the result is truncated to what the table holds.
func (s *Store) Lookup(entity segment.Entity, target segment.Target, horizon int) (*timedataset.TimeDataset, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("got %d, %w", horizon, ErrNonPositiveHorizon)
	}
	table, err := s.table(target)
	if err != nil {
		return nil, err
	}
	name := Column(entity, target)
	col, exists := table.Column(name)
	if !exists {
		return nil, fmt.Errorf("no column %q, %w", name, ErrUnavailable)
	}
	n := min(leadingRun(col), horizon)
	if n == 0 {
		return nil, fmt.Errorf("column %q holds no values, %w", name, ErrUnavailable)
	}
	return timedataset.NewUnivariateDataset(table.T[:n], col[:n])
}
