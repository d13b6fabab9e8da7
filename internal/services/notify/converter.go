package notify

// FixedRateConverter translates USD prices into a secondary display
// currency at a fixed rate, for alert formatting.
type FixedRateConverter struct {
	rate  float64
	label string
}

func NewFixedRateConverter(rate float64, label string) *FixedRateConverter {
	return &FixedRateConverter{rate: rate, label: label}
}

func (c *FixedRateConverter) Convert(usd float64) float64 { return usd * c.rate }

func (c *FixedRateConverter) Label() string { return c.label }
