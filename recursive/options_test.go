package recursive

import (
	"testing"

	"github.com/aouyang1/go-salesforecaster/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt      *Options
		expected *Options
		err      error
	}{
		"nil": {nil, NewDefaultOptions(), nil},
		"sorts and dedupes lags": {
			opt: &Options{Lags: []int{7, 1, 7}, WeeklyOrders: 1},
			expected: &Options{
				Lags:            []int{1, 7},
				ExogColumns:     nil,
				WeeklyOrders:    1,
				MinTrainingRows: 1,
				Boosting:        models.NewDefaultGradientBoostingOptions(),
			},
		},
		"no lags":         {opt: &Options{}, err: ErrInvalidLag},
		"zero lag":        {opt: &Options{Lags: []int{0}}, err: ErrInvalidLag},
		"too many orders": {opt: &Options{Lags: []int{1}, WeeklyOrders: 4}, err: ErrInvalidWeeklyOrders},
		"bad boosting": {
			opt: &Options{Lags: []int{1}, Boosting: &models.GradientBoostingOptions{}},
			err: models.ErrNonPositiveEstimators,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt, err := td.opt.Validate()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, opt)
		})
	}
}

func TestFlagValid(t *testing.T) {
	assert.True(t, FlagLinear.Valid())
	assert.True(t, FlagBoosted.Valid())
	assert.False(t, Flag("arima").Valid())
}
