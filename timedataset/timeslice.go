package timedataset

import (
	"slices"
	"time"
)

// TimeSlice is an ordered run of observation dates
type TimeSlice []time.Time

// EstimateFreq returns the most common spacing between consecutive points. Ties are broken
// by the smaller spacing.
func (t TimeSlice) EstimateFreq() (time.Duration, error) {
	if len(t) < 2 {
		return 0, ErrCannotInferFreq
	}

	counts := make(map[time.Duration]int)
	for i := 1; i < len(t); i++ {
		counts[t[i].Sub(t[i-1])]++
	}

	deltas := make([]time.Duration, 0, len(counts))
	for d := range counts {
		deltas = append(deltas, d)
	}
	slices.Sort(deltas)

	best := deltas[0]
	for _, d := range deltas[1:] {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best, nil
}

// Extend generates n points continuing after the last time point at the given frequency.
// Daily frequencies step by calendar day so that wall clock time is preserved.
func (t TimeSlice) Extend(n int, freq time.Duration) TimeSlice {
	if n <= 0 || len(t) == 0 {
		return TimeSlice{}
	}
	last := t[len(t)-1]
	days := 0
	if freq > 0 && freq%(24*time.Hour) == 0 {
		days = int(freq / (24 * time.Hour))
	}

	res := make(TimeSlice, n)
	for i := range res {
		if days > 0 {
			res[i] = last.AddDate(0, 0, days*(i+1))
			continue
		}
		res[i] = last.Add(time.Duration(i+1) * freq)
	}
	return res
}

// Next returns the date following the last point at the most common spacing
func (t TimeSlice) Next() (time.Time, error) {
	freq, err := t.EstimateFreq()
	if err != nil {
		return time.Time{}, err
	}
	return t.Extend(1, freq)[0], nil
}

// Continues reports whether next are the len(next) dates directly following t at its most
// common spacing
func (t TimeSlice) Continues(next []time.Time) (bool, error) {
	freq, err := t.EstimateFreq()
	if err != nil {
		return false, err
	}
	for i, d := range t.Extend(len(next), freq) {
		if !next[i].Equal(d) {
			return false, nil
		}
	}
	return true, nil
}
