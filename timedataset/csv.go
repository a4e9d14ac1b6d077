package timedataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNoDateColumn   = errors.New("no date column in csv header")
	ErrUnparsableDate = errors.New("unable to parse date")
	ErrUnparsableCell = errors.New("unable to parse cell as a number")
	ErrEmptyCSV       = errors.New("empty csv")
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
}

// ParseDate tries the supported date layouts in order and returns the time in UTC
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%q, %w", s, ErrUnparsableDate)
}

// ParseCell converts a raw cell into a float. Empty cells are NaN and yes/no style flags
// are 1/0.
func ParseCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "na", "null":
		return math.NaN(), nil
	case "yes", "y", "true":
		return 1, nil
	case "no", "n", "false":
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q, %w", s, ErrUnparsableCell)
	}
	return v, nil
}

// ReadCSV parses a csv with a header row into a Frame indexed by dateCol. Rows are sorted
// by date and duplicate dates are rejected.
func ReadCSV(r io.Reader, dateCol string) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to read csv, %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyCSV
	}

	header := records[0]
	dateIdx := -1
	for i, name := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if header[i] == dateCol {
			dateIdx = i
		}
	}
	if dateIdx < 0 {
		return nil, fmt.Errorf("expected %s, %w", dateCol, ErrNoDateColumn)
	}

	type row struct {
		t    time.Time
		vals []float64
	}
	rows := make([]row, 0, len(records)-1)
	for lineNum, rec := range records[1:] {
		t, err := ParseDate(rec[dateIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d, %w", lineNum+2, err)
		}
		vals := make([]float64, len(header))
		for i, cell := range rec {
			if i == dateIdx {
				continue
			}
			v, err := ParseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("line %d column %s, %w", lineNum+2, header[i], err)
			}
			vals[i] = v
		}
		rows = append(rows, row{t, vals})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].t.Before(rows[j].t)
	})

	t := make([]time.Time, len(rows))
	for i, r := range rows {
		t[i] = r.t
	}
	frame, err := NewFrame(t)
	if err != nil {
		return nil, err
	}

	for i, name := range header {
		if i == dateIdx {
			continue
		}
		col := make([]float64, len(rows))
		for j, r := range rows {
			col[j] = r.vals[i]
		}
		if err := frame.AddColumn(name, col); err != nil {
			return nil, err
		}
	}
	return frame, nil
}
