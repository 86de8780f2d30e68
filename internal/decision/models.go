package decision

// HealthBand is the qualitative bucket of a credit score. Bands are ordered
// so they can be compared: Poor < Fair < Good < Excellent.
type HealthBand int

const (
	BandPoor HealthBand = iota
	BandFair
	BandGood
	BandExcellent
)

var bandNames = [...]string{
	BandPoor:      "Poor",
	BandFair:      "Fair",
	BandGood:      "Good",
	BandExcellent: "Excellent",
}

func (b HealthBand) String() string {
	if b < BandPoor || b > BandExcellent {
		return "Unknown"
	}
	return bandNames[b]
}

// MarshalText renders the band name in JSON and other text encodings.
func (b HealthBand) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// Summary is the one-line credit health message shown next to a score.
func (b HealthBand) Summary() string {
	switch b {
	case BandExcellent:
		return "Excellent credit health"
	case BandGood:
		return "Good credit health"
	case BandFair:
		return "Fair credit health, needs improvement"
	default:
		return "Poor credit health, high risk"
	}
}

// RiskLabel is the binary decision attached to a default probability.
type RiskLabel string

const (
	LowRisk  RiskLabel = "Low Risk"
	HighRisk RiskLabel = "High Risk"
)

func (l RiskLabel) String() string { return string(l) }
