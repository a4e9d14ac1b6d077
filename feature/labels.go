package feature

// Labels tracks a slice of features and their index locations that match up
// with the ordering of the coefficients assigned to each of these features.
type Labels struct {
	labels []Feature
}

func NewLabels(labels []Feature) *Labels {
	return &Labels{labels: labels}
}

func (f *Labels) Len() int {
	return len(f.labels)
}

func (f *Labels) Labels() []Feature {
	labels := make([]Feature, len(f.labels))
	copy(labels, f.labels)
	return labels
}

// Strings returns the string representation of each feature in order
func (f *Labels) Strings() []string {
	res := make([]string, len(f.labels))
	for i, l := range f.labels {
		res[i] = l.String()
	}
	return res
}
