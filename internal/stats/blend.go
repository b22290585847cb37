package stats

// Blend accumulates weighted component scores where some components may be
// missing. The result is renormalised by the weight actually present, so an
// absent component drops out instead of counting as zero.
type Blend struct {
	sum    float64
	weight float64
}

// Add includes a present component
func (b *Blend) Add(score, weight float64) {
	if weight <= 0 {
		return
	}
	b.sum += score * weight
	b.weight += weight
}

// AddOpt includes score only when it is non-nil
func (b *Blend) AddOpt(score *float64, weight float64) {
	if score == nil {
		return
	}
	b.Add(*score, weight)
}

// Weight is the total weight of components added so far
func (b *Blend) Weight() float64 {
	return b.weight
}

// Value returns the weighted mean. ok is false if nothing was added.
func (b *Blend) Value() (float64, bool) {
	if b.weight == 0 {
		return 0, false
	}
	return b.sum / b.weight, true
}

// Opt returns the weighted mean as a pointer, nil if nothing was added
func (b *Blend) Opt() *float64 {
	v, ok := b.Value()
	if !ok {
		return nil
	}
	return &v
}
