package repository

import (
	"fmt"
	"math"
	"strings"

	"github.com/aouyang1/go-salesforecaster/event"
	"github.com/aouyang1/go-salesforecaster/segment"
	"github.com/aouyang1/go-salesforecaster/timedataset"
)

const (
	ColumnHoliday          = "Holiday"
	ColumnDiscountedStores = "Discounted Stores"

	// discountPrefix marks per store discount flags in raw files
	discountPrefix = "Discount"
)

// ExogenousColumns returns the regressors produced by the Preparer in order
func ExogenousColumns() []string {
	return []string{ColumnHoliday, ColumnDiscountedStores}
}

// Preparer derives the model ready columns from a raw entity frame
type Preparer struct {
	calendar *event.Calendar
}

// NewPreparer uses the calendar to flag holidays when a raw frame has no Holiday column. A
// nil calendar uses the default US holidays.
func NewPreparer(calendar *event.Calendar) *Preparer {
	if calendar == nil {
		calendar = event.NewCalendar()
	}
	return &Preparer{calendar: calendar}
}

// Prepare returns a new frame with the target, Holiday and Discounted Stores columns. The
// input frame is not modified.
func (p *Preparer) Prepare(frame *timedataset.Frame, target segment.Target) (*timedataset.Frame, error) {
	if frame == nil {
		return nil, fmt.Errorf("no frame, %w", ErrMalformedData)
	}
	y, exists := frame.Column(target.String())
	if !exists {
		return nil, fmt.Errorf("missing target column %s, %w", target, ErrMalformedData)
	}

	exog, err := p.PrepareExogenous(frame)
	if err != nil {
		return nil, err
	}

	res, err := timedataset.NewFrame(frame.T)
	if err != nil {
		return nil, err
	}
	if err := res.AddColumn(target.String(), y); err != nil {
		return nil, err
	}
	for _, col := range ExogenousColumns() {
		vals, _ := exog.Column(col)
		if err := res.AddColumn(col, vals); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// PrepareExogenous returns a new frame with only the Holiday and Discounted Stores columns
func (p *Preparer) PrepareExogenous(frame *timedataset.Frame) (*timedataset.Frame, error) {
	if frame == nil {
		return nil, fmt.Errorf("no frame, %w", ErrMalformedData)
	}
	discounted, err := discountedStores(frame)
	if err != nil {
		return nil, err
	}

	res, err := timedataset.NewFrame(frame.T)
	if err != nil {
		return nil, err
	}
	if err := res.AddColumn(ColumnHoliday, p.holiday(frame)); err != nil {
		return nil, err
	}
	if err := res.AddColumn(ColumnDiscountedStores, discounted); err != nil {
		return nil, err
	}
	return res, nil
}

func truthy(v float64) bool {
	return !math.IsNaN(v) && v != 0
}

func (p *Preparer) holiday(frame *timedataset.Frame) []float64 {
	raw, exists := frame.Column(ColumnHoliday)
	if !exists {
		return p.calendar.Indicator(frame.T)
	}
	res := make([]float64, len(raw))
	for i, v := range raw {
		if truthy(v) {
			res[i] = 1
		}
	}
	return res
}

// discountedStores uses the Discounted Stores column when present, otherwise it counts the
// truthy per store Discount columns of each row
func discountedStores(frame *timedataset.Frame) ([]float64, error) {
	if raw, exists := frame.Column(ColumnDiscountedStores); exists {
		for i, v := range raw {
			if math.IsNaN(v) {
				raw[i] = 0
			}
		}
		return raw, nil
	}

	var sources [][]float64
	for _, col := range frame.Columns() {
		if !strings.HasPrefix(col, discountPrefix) {
			continue
		}
		vals, _ := frame.Column(col)
		sources = append(sources, vals)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no %s or %s* columns, %w", ColumnDiscountedStores, discountPrefix, ErrMalformedData)
	}

	res := make([]float64, frame.Len())
	for _, vals := range sources {
		for i, v := range vals {
			if truthy(v) {
				res[i]++
			}
		}
	}
	return res, nil
}
