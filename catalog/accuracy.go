package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"maps"
	"math"

	"github.com/aouyang1/go-salesforecaster/segment"

	"github.com/goccy/go-json"
)

// TestHorizonDays is the length of the hold out window every recorded MAPE was measured on
const TestHorizonDays = 61

// Key identifies a tested model measurement
type Key struct {
	Entity segment.Entity
	Target segment.Target
	Model  segment.Model
}

// PrecomputedAccuracy holds the MAPE of the precomputed forecasts of an entity. Nil means
// not measured.
type PrecomputedAccuracy struct {
	Sales  *float64 `json:"sales_mape,omitempty"`
	Orders *float64 `json:"orders_mape,omitempty"`
}

func (p PrecomputedAccuracy) get(target segment.Target) (float64, bool) {
	var v *float64
	switch target {
	case segment.Sales:
		v = p.Sales
	case segment.Orders:
		v = p.Orders
	}
	if v == nil || math.IsNaN(*v) {
		return 0, false
	}
	return *v, true
}

// Annotation explains the accuracy of a forecast. MAPE is a percentage.
type Annotation struct {
	Header   string   `json:"header"`
	Lines    []string `json:"lines"`
	MAPE     float64  `json:"mape"`
	Untested bool     `json:"untested"`

	// Measured is the target the MAPE was measured on, which differs from the requested
	// target when Untested is set
	Measured segment.Target `json:"-"`
}

// AccuracyRegistry holds measured MAPE values
type AccuracyRegistry struct {
	records     map[Key]float64
	precomputed map[segment.Entity]PrecomputedAccuracy
}

// NewAccuracyRegistry copies the records. Values are percentages.
func NewAccuracyRegistry(records map[Key]float64, precomputed map[segment.Entity]PrecomputedAccuracy) *AccuracyRegistry {
	r := &AccuracyRegistry{
		records:     make(map[Key]float64, len(records)),
		precomputed: make(map[segment.Entity]PrecomputedAccuracy, len(precomputed)),
	}
	maps.Copy(r.records, records)
	for entity, p := range precomputed {
		var cp PrecomputedAccuracy
		if p.Sales != nil {
			v := *p.Sales
			cp.Sales = &v
		}
		if p.Orders != nil {
			v := *p.Orders
			cp.Orders = &v
		}
		r.precomputed[entity] = cp
	}
	return r
}

// DefaultAccuracyRegistry holds no measurements, every lookup resolves to no annotation
func DefaultAccuracyRegistry() *AccuracyRegistry {
	return NewAccuracyRegistry(nil, nil)
}

// sampleAccuracy documents the registry format. Its values are placeholders, not measurements.
//
//go:embed accuracy.json
var sampleAccuracy []byte

// SampleAccuracyRegistry returns the bundled placeholder registry so annotations can be
// exercised without a measured accuracy file
func SampleAccuracyRegistry() *AccuracyRegistry {
	r, err := LoadAccuracyRegistry(bytes.NewReader(sampleAccuracy))
	if err != nil {
		panic(fmt.Sprintf("embedded accuracy registry is invalid: %v", err))
	}
	return r
}

type recordJSON struct {
	Entity string  `json:"entity"`
	Target string  `json:"target"`
	Model  string  `json:"model"`
	MAPE   float64 `json:"mape"`
}

type registryJSON struct {
	Models  []recordJSON                   `json:"models"`
	Prophet map[string]PrecomputedAccuracy `json:"prophet"`
}

// LoadAccuracyRegistry reads
//
//	{"models": [{"entity": "Company", "target": "Sales", "model": "ARIMA", "mape": 8.1}],
//	 "prophet": {"Company": {"sales_mape": 6.5, "orders_mape": 7.2}}}
func LoadAccuracyRegistry(r io.Reader) (*AccuracyRegistry, error) {
	var raw registryJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%v, %w", err, ErrMalformedCatalog)
	}

	records := make(map[Key]float64, len(raw.Models))
	for i, rec := range raw.Models {
		key, err := parseKey(rec)
		if err != nil {
			return nil, fmt.Errorf("model record %d, %v, %w", i, err, ErrMalformedCatalog)
		}
		if _, exists := records[key]; exists {
			return nil, fmt.Errorf("duplicate model record for %s/%s/%s, %w", rec.Entity, rec.Target, rec.Model, ErrMalformedCatalog)
		}
		records[key] = rec.MAPE
	}

	precomputed := make(map[segment.Entity]PrecomputedAccuracy, len(raw.Prophet))
	for name, p := range raw.Prophet {
		entity, err := segment.ParseEntity(name)
		if err != nil {
			return nil, fmt.Errorf("prophet record, %v, %w", err, ErrMalformedCatalog)
		}
		precomputed[entity] = p
	}
	return NewAccuracyRegistry(records, precomputed), nil
}

func parseKey(rec recordJSON) (Key, error) {
	entity, err := segment.ParseEntity(rec.Entity)
	if err != nil {
		return Key{}, err
	}
	target, err := segment.ParseTarget(rec.Target)
	if err != nil {
		return Key{}, err
	}
	model, err := segment.ParseModel(rec.Model)
	if err != nil {
		return Key{}, err
	}
	return Key{Entity: entity, Target: target, Model: model}, nil
}

// Lookup returns the direct measurement for a tested model
func (r *AccuracyRegistry) Lookup(key Key) (float64, bool) {
	v, exists := r.records[key]
	if !exists || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func formatMAPE(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// Resolve builds the accuracy annotation of a forecast. The second return is false when no
// measurement applies, which is not an error.
//
// A missing Orders measurement falls back to the Sales measurement of the same entity and
// model, labelled as untested.
func (r *AccuracyRegistry) Resolve(entity segment.Entity, target segment.Target, model segment.Model) (Annotation, bool) {
	if model.Precomputed() {
		return r.resolvePrecomputed(entity, target, model)
	}

	if v, ok := r.Lookup(Key{entity, target, model}); ok {
		return Annotation{
			Header: "Test MAPE: " + formatMAPE(v),
			Lines: []string{
				fmt.Sprintf("%s achieved this MAPE on a %d-day test horizon.", model, TestHorizonDays),
				"Lower MAPE indicates better accuracy.",
				"Parameters tuned for minimum MAPE were used.",
			},
			MAPE:     v,
			Measured: target,
		}, true
	}

	if target != segment.Orders {
		return Annotation{}, false
	}
	v, ok := r.Lookup(Key{entity, segment.Sales, model})
	if !ok {
		return Annotation{}, false
	}
	return Annotation{
		Header: fmt.Sprintf("Orders forecasts for %s are untested.", model),
		Lines: []string{
			fmt.Sprintf("Sales MAPE for the same model/segment: %s.", formatMAPE(v)),
			"Lower MAPE indicates better accuracy.",
		},
		MAPE:     v,
		Untested: true,
		Measured: segment.Sales,
	}, true
}

func (r *AccuracyRegistry) resolvePrecomputed(entity segment.Entity, target segment.Target, model segment.Model) (Annotation, bool) {
	p, exists := r.precomputed[entity]
	if !exists {
		return Annotation{}, false
	}
	v, ok := p.get(target)
	if !ok {
		return Annotation{}, false
	}

	var first, second string
	switch target {
	case segment.Sales:
		first = fmt.Sprintf("Sales forecasts for %s are pre-computed.", model)
		second = fmt.Sprintf("Best MAPE: %s on a %d-day horizon.", formatMAPE(v), TestHorizonDays)
	default:
		first = fmt.Sprintf("Order forecasts for %s are pre-computed.", model)
		second = fmt.Sprintf("MAPE: %s on a %d-day horizon.", formatMAPE(v), TestHorizonDays)
	}
	return Annotation{
		Header: "Test MAPE: " + formatMAPE(v),
		Lines: []string{
			first,
			second,
			"Forecasting with other horizons noticeably reduces performance.",
			"Lower MAPE indicates better accuracy.",
		},
		MAPE:     v,
		Measured: target,
	}, true
}
