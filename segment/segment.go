// Package segment enumerates the closed sets of entities, target metrics and model choices
// a forecast can be requested for.
package segment

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownEntity = errors.New("unknown entity")
	ErrUnknownTarget = errors.New("unknown target metric")
	ErrUnknownModel  = errors.New("unknown model")
)

// Entity is a business segment with its own historical series
type Entity int

const (
	Company Entity = iota
	Region1
	Region2
	Region3
	Region4
)

var entityNames = [...]string{"Company", "Region 1", "Region 2", "Region 3", "Region 4"}

// Entities returns every entity in display order
func Entities() []Entity {
	return []Entity{Company, Region1, Region2, Region3, Region4}
}

func (e Entity) Valid() bool {
	return e >= Company && e <= Region4
}

func (e Entity) String() string {
	if !e.Valid() {
		return fmt.Sprintf("Entity(%d)", int(e))
	}
	return entityNames[e]
}

// Slug returns the file name stem used for the entity's data files, e.g. region_1
func (e Entity) Slug() string {
	return strings.ReplaceAll(strings.ToLower(e.String()), " ", "_")
}

// ParseEntity matches the display name of an entity exactly
func ParseEntity(s string) (Entity, error) {
	for i, name := range entityNames {
		if s == name {
			return Entity(i), nil
		}
	}
	return 0, fmt.Errorf("%q, %w", s, ErrUnknownEntity)
}

// Target is the metric being forecasted
type Target int

const (
	Sales Target = iota
	Orders
)

var targetNames = [...]string{"Sales", "Orders"}

// Targets returns every target metric
func Targets() []Target {
	return []Target{Sales, Orders}
}

func (t Target) Valid() bool {
	return t == Sales || t == Orders
}

func (t Target) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Target(%d)", int(t))
	}
	return targetNames[t]
}

func ParseTarget(s string) (Target, error) {
	for i, name := range targetNames {
		if s == name {
			return Target(i), nil
		}
	}
	return 0, fmt.Errorf("%q, %w", s, ErrUnknownTarget)
}

// Model is the forecasting strategy chosen for a request
type Model int

const (
	LinearRegression Model = iota
	XGBoost
	ARIMA
	SARIMAX
	Prophet
)

var modelNames = [...]string{"Linear Regression", "XGBoost", "ARIMA", "SARIMAX", "Prophet"}

// Models returns every model choice in display order
func Models() []Model {
	return []Model{LinearRegression, XGBoost, ARIMA, SARIMAX, Prophet}
}

func (m Model) Valid() bool {
	return m >= LinearRegression && m <= Prophet
}

func (m Model) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Model(%d)", int(m))
	}
	return modelNames[m]
}

// Precomputed reports whether forecasts for the model are looked up rather than fit
func (m Model) Precomputed() bool {
	return m == Prophet
}

func ParseModel(s string) (Model, error) {
	for i, name := range modelNames {
		if s == name {
			return Model(i), nil
		}
	}
	return 0, fmt.Errorf("%q, %w", s, ErrUnknownModel)
}

func (e Entity) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("%d, %w", int(e), ErrUnknownEntity)
	}
	return []byte(e.String()), nil
}

func (e *Entity) UnmarshalText(text []byte) error {
	v, err := ParseEntity(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

func (t Target) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%d, %w", int(t), ErrUnknownTarget)
	}
	return []byte(t.String()), nil
}

func (t *Target) UnmarshalText(text []byte) error {
	v, err := ParseTarget(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (m Model) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%d, %w", int(m), ErrUnknownModel)
	}
	return []byte(m.String()), nil
}

func (m *Model) UnmarshalText(text []byte) error {
	v, err := ParseModel(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
