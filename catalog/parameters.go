// Package catalog holds the per entity model hyperparameters and the measured accuracy of
// each model. Both are loaded once and never modified.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/aouyang1/go-salesforecaster/arima"
	"github.com/aouyang1/go-salesforecaster/segment"

	"github.com/goccy/go-json"
)

var (
	ErrMissingParameters = errors.New("missing model parameters for entity")
	ErrMalformedCatalog  = errors.New("malformed catalog")
)

//go:embed parameters.json
var defaultParameters []byte

// Parameters are the tuned classical model orders of an entity
type Parameters struct {
	ARIMA    arima.Order
	SARIMAX  arima.Order
	Seasonal arima.SeasonalOrder
}

type parametersJSON struct {
	ARIMA    []int `json:"arima_order"`
	SARIMAX  []int `json:"sarimax_order"`
	Seasonal []int `json:"seasonal_order"`
}

func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(parametersJSON{
		ARIMA:    []int{p.ARIMA.P, p.ARIMA.D, p.ARIMA.Q},
		SARIMAX:  []int{p.SARIMAX.P, p.SARIMAX.D, p.SARIMAX.Q},
		Seasonal: []int{p.Seasonal.P, p.Seasonal.D, p.Seasonal.Q, p.Seasonal.S},
	})
}

func (p *Parameters) UnmarshalJSON(data []byte) error {
	var raw parametersJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.ARIMA) != 3 || len(raw.SARIMAX) != 3 || len(raw.Seasonal) != 4 {
		return fmt.Errorf("orders need 3, 3 and 4 terms, got %d, %d and %d, %w",
			len(raw.ARIMA), len(raw.SARIMAX), len(raw.Seasonal), ErrMalformedCatalog)
	}
	p.ARIMA = arima.Order{P: raw.ARIMA[0], D: raw.ARIMA[1], Q: raw.ARIMA[2]}
	p.SARIMAX = arima.Order{P: raw.SARIMAX[0], D: raw.SARIMAX[1], Q: raw.SARIMAX[2]}
	p.Seasonal = arima.SeasonalOrder{P: raw.Seasonal[0], D: raw.Seasonal[1], Q: raw.Seasonal[2], S: raw.Seasonal[3]}
	return nil
}

// Validate checks every order
func (p Parameters) Validate() error {
	if err := p.ARIMA.Validate(); err != nil {
		return fmt.Errorf("arima order, %w", err)
	}
	if err := p.SARIMAX.Validate(); err != nil {
		return fmt.Errorf("sarimax order, %w", err)
	}
	if err := p.Seasonal.Validate(); err != nil {
		return fmt.Errorf("seasonal order, %w", err)
	}
	return nil
}

// ParameterCatalog maps every entity to its tuned parameters
type ParameterCatalog struct {
	params map[segment.Entity]Parameters
}

// NewParameterCatalog requires an entry for every entity
func NewParameterCatalog(params map[segment.Entity]Parameters) (*ParameterCatalog, error) {
	for _, entity := range segment.Entities() {
		p, exists := params[entity]
		if !exists {
			return nil, fmt.Errorf("%s, %w", entity, ErrMissingParameters)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%s %w", entity, err)
		}
	}
	return &ParameterCatalog{params: maps.Clone(params)}, nil
}

// DefaultParameterCatalog returns the built in tuned parameters
func DefaultParameterCatalog() *ParameterCatalog {
	c, err := decodeParameterCatalog(defaultParameters)
	if err != nil {
		panic(fmt.Sprintf("embedded parameter catalog is invalid: %v", err))
	}
	return c
}

// LoadParameterCatalog reads a json object keyed by entity name
func LoadParameterCatalog(r io.Reader) (*ParameterCatalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read parameter catalog, %w", err)
	}
	return decodeParameterCatalog(data)
}

func decodeParameterCatalog(data []byte) (*ParameterCatalog, error) {
	var raw map[string]Parameters
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%v, %w", err, ErrMalformedCatalog)
	}
	params := make(map[segment.Entity]Parameters, len(raw))
	for name, p := range raw {
		entity, err := segment.ParseEntity(name)
		if err != nil {
			return nil, fmt.Errorf("%v, %w", err, ErrMalformedCatalog)
		}
		params[entity] = p
	}
	return NewParameterCatalog(params)
}

// Lookup returns the parameters of an entity
func (c *ParameterCatalog) Lookup(entity segment.Entity) (Parameters, error) {
	p, exists := c.params[entity]
	if !exists {
		return Parameters{}, fmt.Errorf("%s, %w", entity, ErrMissingParameters)
	}
	return p, nil
}

// Entities returns the catalogued entities in display order
func (c *ParameterCatalog) Entities() []segment.Entity {
	entities := slices.Collect(maps.Keys(c.params))
	slices.Sort(entities)
	return entities
}

// MarshalJSON writes the catalog in the same shape LoadParameterCatalog reads
func (c *ParameterCatalog) MarshalJSON() ([]byte, error) {
	raw := make(map[string]Parameters, len(c.params))
	for entity, p := range c.params {
		raw[entity.String()] = p
	}
	return json.Marshal(raw)
}
