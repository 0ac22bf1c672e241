package calculator

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Engine computes minimum-coin quantities for a fixed denomination set.
// An Engine is immutable once built and safe for concurrent use.
type Engine struct {
	denominations []int
	sorted        []int
	position      map[int]int
	limits        Limits
	canonical     bool
	greedySafe    bool
}

// New validates denominations and builds an Engine for them.
//
// Checks run in order: the set is non-empty, it fits Limits.MaxDenominations
// when that cap is set, every value lies in 1..Limits.MaxDenomination, values are unique, and the
// smallest value is 1.
func New(denominations []int, opts ...Option) (*Engine, error) {
	cfg := engineConfig{limits: DefaultLimits()}
	for _, opt := range opts {
		opt(&cfg)
	}
	limits := cfg.limits

	if len(denominations) == 0 {
		return nil, newError(KindEmpty, "", "")
	}
	if limits.MaxDenominations > 0 && len(denominations) > limits.MaxDenominations {
		return nil, newError(KindTooManyDenominations, "", fmt.Sprintf("at most %d", limits.MaxDenominations))
	}
	for _, d := range denominations {
		if d <= 0 || d > limits.MaxDenomination {
			return nil, newError(KindInvalidDenomination, strconv.Itoa(d), fmt.Sprintf("1-%d", limits.MaxDenomination))
		}
	}

	position := make(map[int]int, len(denominations))
	for i, d := range denominations {
		if _, seen := position[d]; seen {
			return nil, newError(KindDuplicateDenomination, strconv.Itoa(d), "")
		}
		position[d] = i
	}
	if _, ok := position[1]; !ok {
		return nil, newError(KindMissingUnit, "", "")
	}

	sorted := slices.Clone(denominations)
	slices.Sort(sorted)
	slices.Reverse(sorted)
	canonical := isCanonical(sorted)

	return &Engine{
		denominations: slices.Clone(denominations),
		sorted:        sorted,
		position:      position,
		limits:        limits,
		canonical:     canonical,
		greedySafe:    canonical && hasUniqueOptima(sorted),
	}, nil
}

// ParseDenominations converts textual denominations into integers. Range and
// set rules are enforced later by New.
func ParseDenominations(raw []string) ([]int, error) {
	out := make([]int, 0, len(raw))
	for _, item := range raw {
		value, err := strconv.Atoi(strings.TrimSpace(item))
		if err != nil {
			return nil, newError(KindInvalidDenomination, item, "")
		}
		out = append(out, value)
	}
	return out, nil
}

// ParseTotal converts a textual total and checks it against the engine limits.
func (e *Engine) ParseTotal(raw string) (int, error) {
	total, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, e.totalError(raw)
	}
	if err := e.validateTotal(total); err != nil {
		return 0, err
	}
	return total, nil
}

// Solve returns the quantity of each denomination, in the order the
// denominations were supplied to New, that sums to total with the fewest coins.
func (e *Engine) Solve(total int) ([]int, error) {
	sol, err := e.SolveDetailed(total)
	if err != nil {
		return nil, err
	}
	return sol.Quantities, nil
}

// SolveDetailed is Solve plus the coin count and the algorithm that produced it.
func (e *Engine) SolveDetailed(total int) (Solution, error) {
	if err := e.validateTotal(total); err != nil {
		return Solution{}, err
	}

	algorithm := e.Algorithm()
	var quantities []int
	if algorithm == AlgorithmGreedy {
		quantities = greedy(total, e.sorted)
	} else {
		quantities = exact(total, e.sorted)
	}

	coins := 0
	for _, q := range quantities {
		coins += q
	}

	return Solution{
		Total:         total,
		Denominations: slices.Clone(e.denominations),
		Quantities:    e.toCallerOrder(quantities),
		Coins:         coins,
		Algorithm:     algorithm,
	}, nil
}

// Algorithm reports which algorithm Solve uses for this denomination set.
// Greedy is used only for canonical sets where no total has two minimum-coin
// vectors; otherwise ties could resolve differently from the exact search.
func (e *Engine) Algorithm() Algorithm {
	if e.greedySafe {
		return AlgorithmGreedy
	}
	return AlgorithmExact
}

// Canonical reports whether greedy decomposition is optimal for every total.
func (e *Engine) Canonical() bool {
	return e.canonical
}

// Denominations returns a copy of the denominations in caller order.
func (e *Engine) Denominations() []int {
	return slices.Clone(e.denominations)
}

// SortedDenominations returns a copy of the denominations, largest first.
func (e *Engine) SortedDenominations() []int {
	return slices.Clone(e.sorted)
}

// Limits returns the limits the engine enforces.
func (e *Engine) Limits() Limits {
	return e.limits
}

func (e *Engine) validateTotal(total int) error {
	if total < 0 || total > e.limits.MaxTotal {
		return e.totalError(strconv.Itoa(total))
	}
	return nil
}

func (e *Engine) totalError(raw string) error {
	return newError(KindInvalidTotal, raw, fmt.Sprintf("0-%d", e.limits.MaxTotal))
}

// toCallerOrder maps a vector aligned to e.sorted onto caller order.
func (e *Engine) toCallerOrder(quantities []int) []int {
	out := make([]int, len(e.denominations))
	for i, d := range e.sorted {
		out[e.position[d]] = quantities[i]
	}
	return out
}
