package catalog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aouyang1/go-salesforecaster/arima"
	"github.com/aouyang1/go-salesforecaster/segment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParameterCatalog(t *testing.T) {
	c := DefaultParameterCatalog()
	assert.Equal(t, segment.Entities(), c.Entities())

	p, err := c.Lookup(segment.Company)
	require.Nil(t, err)
	assert.Equal(t, arima.Order{P: 2, D: 1, Q: 2}, p.ARIMA)
	assert.Equal(t, arima.Order{P: 1, D: 1, Q: 1}, p.SARIMAX)
	assert.Equal(t, arima.SeasonalOrder{P: 1, D: 0, Q: 1, S: 7}, p.Seasonal)

	_, err = c.Lookup(segment.Entity(9))
	assert.ErrorIs(t, err, ErrMissingParameters)
}

func TestParameterCatalogRoundTrip(t *testing.T) {
	c := DefaultParameterCatalog()
	data, err := c.MarshalJSON()
	require.Nil(t, err)

	loaded, err := LoadParameterCatalog(bytes.NewReader(data))
	require.Nil(t, err)
	for _, entity := range segment.Entities() {
		want, err := c.Lookup(entity)
		require.Nil(t, err)
		got, err := loaded.Lookup(entity)
		require.Nil(t, err)
		assert.Equal(t, want, got, entity.String())
	}
}

func TestLoadParameterCatalog(t *testing.T) {
	entry := `{"arima_order":[1,1,1],"sarimax_order":[1,0,1],"seasonal_order":[1,0,1,7]}`
	all := func(override string) string {
		parts := make([]string, 0, 5)
		for _, entity := range segment.Entities() {
			v := entry
			if entity == segment.Region4 && override != "" {
				v = override
			}
			parts = append(parts, `"`+entity.String()+`":`+v)
		}
		return "{" + strings.Join(parts, ",") + "}"
	}

	testData := map[string]struct {
		input string
		err   error
	}{
		"valid": {
			input: all(""),
		},
		"not json": {
			input: "{",
			err:   ErrMalformedCatalog,
		},
		"unknown entity": {
			input: `{"Region 9":` + entry + `}`,
			err:   ErrMalformedCatalog,
		},
		"missing entity": {
			input: `{"Company":` + entry + `}`,
			err:   ErrMissingParameters,
		},
		"short order": {
			input: all(`{"arima_order":[1,1],"sarimax_order":[1,0,1],"seasonal_order":[1,0,1,7]}`),
			err:   ErrMalformedCatalog,
		},
		"negative order": {
			input: all(`{"arima_order":[-1,1,1],"sarimax_order":[1,0,1],"seasonal_order":[1,0,1,7]}`),
			err:   arima.ErrInvalidOrder,
		},
		"seasonal without period": {
			input: all(`{"arima_order":[1,1,1],"sarimax_order":[1,0,1],"seasonal_order":[1,0,1,0]}`),
			err:   arima.ErrInvalidOrder,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			c, err := LoadParameterCatalog(strings.NewReader(td.input))
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Len(t, c.Entities(), 5)
		})
	}
}
