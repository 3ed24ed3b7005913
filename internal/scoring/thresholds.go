package scoring

// Thresholds are the fixed classification constants. They have no
// documented statistical derivation and are kept configurable.
type Thresholds struct {
	High                     float64
	Medium                   float64
	Simulation               float64
	DefaultPopulationAverage float64
}

// DefaultThresholds returns the historical values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		High:                     2,
		Medium:                   1,
		Simulation:               5,
		DefaultPopulationAverage: 1.5,
	}
}

// orDefault fills zero fields so a partially configured struct stays usable.
func (t Thresholds) orDefault() Thresholds {
	d := DefaultThresholds()
	if t.High <= 0 {
		t.High = d.High
	}
	if t.Medium <= 0 {
		t.Medium = d.Medium
	}
	if t.Simulation <= 0 {
		t.Simulation = d.Simulation
	}
	if t.DefaultPopulationAverage <= 0 {
		t.DefaultPopulationAverage = d.DefaultPopulationAverage
	}
	return t
}
