package calculator

const (
	defaultMaxDenomination = 999
	defaultMaxTotal        = 999_999
)

// Limits bounds the inputs an Engine accepts. They keep the exact search tractable.
// MaxDenominations caps the size of a set only when positive.
type Limits struct {
	MaxDenomination  int `json:"maxDenomination" yaml:"max_denomination"`
	MaxTotal         int `json:"maxTotal" yaml:"max_total"`
	MaxDenominations int `json:"maxDenominations" yaml:"max_denominations"`
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxDenomination: defaultMaxDenomination,
		MaxTotal:        defaultMaxTotal,
	}
}

// withDefaults fills unset range limits with the defaults.
func (l Limits) withDefaults() Limits {
	def := DefaultLimits()
	if l.MaxDenomination <= 0 {
		l.MaxDenomination = def.MaxDenomination
	}
	if l.MaxTotal <= 0 {
		l.MaxTotal = def.MaxTotal
	}
	if l.MaxDenominations < 0 {
		l.MaxDenominations = 0
	}
	return l
}

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	limits Limits
}

// WithLimits overrides the default input limits. Zero fields keep their defaults.
func WithLimits(limits Limits) Option {
	return func(cfg *engineConfig) {
		cfg.limits = limits.withDefaults()
	}
}

// Algorithm names the strategy used to compute quantities.
type Algorithm int

const (
	// AlgorithmGreedy takes as many of each denomination as fit, largest first.
	AlgorithmGreedy Algorithm = iota + 1
	// AlgorithmExact searches for the minimum coin count.
	AlgorithmExact
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmGreedy:
		return "greedy"
	case AlgorithmExact:
		return "exact"
	default:
		return "unknown"
	}
}

// Coin pairs a denomination with the number of coins used.
type Coin struct {
	Denomination int `json:"denomination"`
	Quantity     int `json:"quantity"`
}

// Solution is the outcome of a solve, aligned to caller order.
type Solution struct {
	Total         int
	Denominations []int
	Quantities    []int
	Coins         int
	Algorithm     Algorithm
}

// Breakdown pairs each denomination with its quantity, in caller order.
func (s Solution) Breakdown() []Coin {
	out := make([]Coin, len(s.Denominations))
	for i, d := range s.Denominations {
		out[i] = Coin{Denomination: d, Quantity: s.Quantities[i]}
	}
	return out
}
