package calculator

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		denominations []int
		total         int
		want          []int
		wantAlgorithm Algorithm
	}{
		{
			name:          "CanonicalDescending",
			denominations: []int{25, 10, 5, 1},
			total:         117,
			want:          []int{4, 1, 1, 2},
			wantAlgorithm: AlgorithmGreedy,
		},
		{
			name:          "CanonicalAscending",
			denominations: []int{1, 5, 10, 25},
			total:         117,
			want:          []int{2, 1, 1, 4},
			wantAlgorithm: AlgorithmGreedy,
		},
		{
			name:          "CanonicalShuffled",
			denominations: []int{5, 25, 1, 10},
			total:         117,
			want:          []int{1, 4, 2, 1},
			wantAlgorithm: AlgorithmGreedy,
		},
		{
			name:          "NonCanonicalBeatsGreedy",
			denominations: []int{25, 10, 6, 1},
			total:         19,
			want:          []int{0, 0, 3, 1},
			wantAlgorithm: AlgorithmExact,
		},
		{
			name:          "NonCanonicalAscending",
			denominations: []int{1, 6, 10, 25},
			total:         19,
			want:          []int{1, 3, 0, 0},
			wantAlgorithm: AlgorithmExact,
		},
		{
			name:          "NonCanonicalShuffled",
			denominations: []int{6, 1, 25, 10},
			total:         69,
			want:          []int{3, 1, 2, 0},
			wantAlgorithm: AlgorithmExact,
		},
		{
			name:          "NonCanonicalTwoSixes",
			denominations: []int{25, 10, 6, 1},
			total:         12,
			want:          []int{0, 0, 2, 0},
			wantAlgorithm: AlgorithmExact,
		},
		{
			name:          "TieKeepsFewestLargeCoins",
			denominations: []int{5, 4, 3, 1},
			total:         8,
			want:          []int{0, 2, 0, 0},
			wantAlgorithm: AlgorithmExact,
		},
		{
			name:          "CanonicalWithTiesUsesExact",
			denominations: []int{4, 3, 2, 1},
			total:         6,
			want:          []int{0, 2, 0, 0},
			wantAlgorithm: AlgorithmExact,
		},
		{
			name:          "ElevenDenominations",
			denominations: []int{1, 2, 3, 5, 7, 11, 13, 17, 19, 23, 29},
			total:         100,
			want:          []int{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 2},
			wantAlgorithm: AlgorithmExact,
		},
		{
			name:          "ZeroTotal",
			denominations: []int{25, 10, 6, 1},
			total:         0,
			want:          []int{0, 0, 0, 0},
			wantAlgorithm: AlgorithmExact,
		},
		{
			name:          "UnitOnly",
			denominations: []int{1},
			total:         42,
			want:          []int{42},
			wantAlgorithm: AlgorithmGreedy,
		},
		{
			name:          "FiveDenominations",
			denominations: []int{1, 7, 15, 20, 50},
			total:         74,
			want:          []int{0, 2, 0, 3, 0},
			wantAlgorithm: AlgorithmExact,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			engine, err := New(tc.denominations)
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}

			sol, err := engine.SolveDetailed(tc.total)
			if err != nil {
				t.Fatalf("SolveDetailed returned error: %v", err)
			}
			if diff := cmp.Diff(tc.want, sol.Quantities); diff != "" {
				t.Fatalf("unexpected quantities (-want +got):\n%s", diff)
			}
			if sol.Algorithm != tc.wantAlgorithm {
				t.Fatalf("expected algorithm %s, got %s", tc.wantAlgorithm, sol.Algorithm)
			}
			if got := weightedSum(tc.denominations, sol.Quantities); got != tc.total {
				t.Fatalf("quantities sum to %d, want %d", got, tc.total)
			}
		})
	}
}

func TestNewRejectsInvalidDenominations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		denominations []int
		wantKind      ErrorKind
		wantErr       error
	}{
		{name: "Nil", denominations: nil, wantKind: KindEmpty, wantErr: ErrEmptyDenominations},
		{name: "Empty", denominations: []int{}, wantKind: KindEmpty, wantErr: ErrEmptyDenominations},
		{name: "MissingUnit", denominations: []int{25, 10, 4}, wantKind: KindMissingUnit, wantErr: ErrMissingUnit},
		{name: "Duplicate", denominations: []int{1, 1, 5}, wantKind: KindDuplicateDenomination, wantErr: ErrDuplicateDenomination},
		{name: "Negative", denominations: []int{1, -5, 10}, wantKind: KindInvalidDenomination, wantErr: ErrInvalidDenomination},
		{name: "Zero", denominations: []int{0, 1}, wantKind: KindInvalidDenomination, wantErr: ErrInvalidDenomination},
		{name: "AboveLimit", denominations: []int{1, 1000}, wantKind: KindInvalidDenomination, wantErr: ErrInvalidDenomination},
		{name: "RangeCheckedBeforeDuplicates", denominations: []int{1, 1, -5}, wantKind: KindInvalidDenomination, wantErr: ErrInvalidDenomination},
		{name: "DuplicatesCheckedBeforeUnit", denominations: []int{2, 2}, wantKind: KindDuplicateDenomination, wantErr: ErrDuplicateDenomination},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			engine, err := New(tc.denominations)
			if engine != nil {
				t.Fatalf("expected nil engine on error")
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			kind, ok := KindOf(err)
			if !ok || kind != tc.wantKind {
				t.Fatalf("expected kind %s, got %s (ok=%t)", tc.wantKind, kind, ok)
			}
			if kind.Category() != CategoryConstruction {
				t.Fatalf("expected construction category for %s", kind)
			}
		})
	}
}

func TestMaxDenominationsIsOptIn(t *testing.T) {
	t.Parallel()

	eleven := []int{1, 2, 3, 5, 7, 11, 13, 17, 19, 23, 29}
	engine := mustEngine(t, eleven)
	if got := engine.Limits().MaxDenominations; got != 0 {
		t.Fatalf("expected no default cap, got %d", got)
	}

	_, err := New(eleven, WithLimits(Limits{MaxDenominations: 10}))
	if !errors.Is(err, ErrTooManyDenominations) {
		t.Fatalf("expected ErrTooManyDenominations, got %v", err)
	}
	if kind, _ := KindOf(err); kind != KindTooManyDenominations || kind.Category() != CategoryConstruction {
		t.Fatalf("unexpected kind %s", kind)
	}

	if _, err := New(eleven[:10], WithLimits(Limits{MaxDenominations: 10})); err != nil {
		t.Fatalf("expected ten denominations to fit, got %v", err)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	t.Parallel()

	_, err := New([]int{1, 1, 5})
	if err == nil {
		t.Fatalf("expected error")
	}
	want := `denominations cannot contain duplicate values: "1"`
	if err.Error() != want {
		t.Fatalf("expected message %q, got %q", want, err.Error())
	}

	engine := mustEngine(t, []int{25, 10, 5, 1})
	_, err = engine.Solve(-1)
	want = `total must be a non-negative integer within the supported range (0-999999): "-1"`
	if err == nil || err.Error() != want {
		t.Fatalf("expected message %q, got %v", want, err)
	}
}

func TestSolveRejectsInvalidTotal(t *testing.T) {
	t.Parallel()

	engine := mustEngine(t, []int{25, 10, 5, 1})
	for _, total := range []int{-1, -100, 1_000_000} {
		total := total
		t.Run(fmt.Sprintf("%d", total), func(t *testing.T) {
			got, err := engine.Solve(total)
			if !errors.Is(err, ErrInvalidTotal) {
				t.Fatalf("expected ErrInvalidTotal, got %v", err)
			}
			if got != nil {
				t.Fatalf("expected no partial result, got %v", got)
			}
			if kind, _ := KindOf(err); kind.Category() != CategorySolve {
				t.Fatalf("expected solve category, got %v", kind.Category())
			}
		})
	}

	if _, err := engine.Solve(999_999); err != nil {
		t.Fatalf("expected upper bound to be accepted, got %v", err)
	}
}

func TestParseDenominations(t *testing.T) {
	t.Parallel()

	got, err := ParseDenominations([]string{"25", " 10 ", "5", "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]int{25, 10, 5, 1}, got); diff != "" {
		t.Fatalf("unexpected denominations (-want +got):\n%s", diff)
	}

	for _, raw := range [][]string{{"1", "x"}, {"1", "2.5"}, {""}} {
		raw := raw
		t.Run(fmt.Sprintf("%q", raw), func(t *testing.T) {
			if _, err := ParseDenominations(raw); !errors.Is(err, ErrInvalidDenomination) {
				t.Fatalf("expected ErrInvalidDenomination for %q, got %v", raw, err)
			}
		})
	}

	got, err = ParseDenominations(nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty result without error, got %v, %v", got, err)
	}
	if _, err := New(got); !errors.Is(err, ErrEmptyDenominations) {
		t.Fatalf("expected empty error from New, got %v", err)
	}
}

func TestParseTotal(t *testing.T) {
	t.Parallel()

	engine := mustEngine(t, []int{25, 10, 5, 1})

	got, err := engine.ParseTotal(" 117 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 117 {
		t.Fatalf("expected 117, got %d", got)
	}

	for _, raw := range []string{"", "abc", "-1", "1000000", "1.5"} {
		raw := raw
		t.Run(raw, func(t *testing.T) {
			if _, err := engine.ParseTotal(raw); !errors.Is(err, ErrInvalidTotal) {
				t.Fatalf("expected ErrInvalidTotal for %q, got %v", raw, err)
			}
		})
	}
}

func TestWithLimits(t *testing.T) {
	t.Parallel()

	limits := Limits{MaxDenomination: 50, MaxTotal: 100}
	if _, err := New([]int{100, 1}, WithLimits(limits)); !errors.Is(err, ErrInvalidDenomination) {
		t.Fatalf("expected ErrInvalidDenomination, got %v", err)
	}

	engine := mustEngine(t, []int{50, 20, 1}, WithLimits(limits))
	if _, err := engine.Solve(101); !errors.Is(err, ErrInvalidTotal) {
		t.Fatalf("expected ErrInvalidTotal, got %v", err)
	}
	want := Limits{MaxDenomination: 50, MaxTotal: 100}
	if diff := cmp.Diff(want, engine.Limits()); diff != "" {
		t.Fatalf("unexpected limits (-want +got):\n%s", diff)
	}
}

func TestEngineCopiesInput(t *testing.T) {
	t.Parallel()

	input := []int{1, 5, 10, 25}
	engine := mustEngine(t, input)
	input[0] = 7

	got, err := engine.Solve(117)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if diff := cmp.Diff([]int{2, 1, 1, 4}, got); diff != "" {
		t.Fatalf("engine state changed after caller mutation (-want +got):\n%s", diff)
	}

	denoms := engine.Denominations()
	denoms[0] = 99
	if engine.Denominations()[0] != 1 {
		t.Fatalf("Denominations exposed internal state")
	}
	if diff := cmp.Diff([]int{25, 10, 5, 1}, engine.SortedDenominations()); diff != "" {
		t.Fatalf("unexpected sorted denominations (-want +got):\n%s", diff)
	}
}

func TestSolveIsIdempotent(t *testing.T) {
	t.Parallel()

	engine := mustEngine(t, []int{6, 1, 25, 10})
	first, err := engine.Solve(987)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	second, err := engine.Solve(987)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if !slices.Equal(first, second) {
		t.Fatalf("expected identical results, got %v and %v", first, second)
	}
}

func TestSolveIsOrderInvariant(t *testing.T) {
	t.Parallel()

	orders := [][]int{
		{25, 10, 6, 1},
		{1, 6, 10, 25},
		{6, 1, 25, 10},
		{10, 25, 1, 6},
	}
	engines := make([]*Engine, len(orders))
	for i, order := range orders {
		engines[i] = mustEngine(t, order)
	}

	for total := 0; total <= 300; total++ {
		want := asPairs(orders[0], mustSolve(t, engines[0], total))
		for i := 1; i < len(orders); i++ {
			got := asPairs(orders[i], mustSolve(t, engines[i], total))
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("total %d order %v differs (-want +got):\n%s", total, orders[i], diff)
			}
		}
	}
}

func TestSolveIsExactAndMinimal(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 40; round++ {
		denoms := randomDenominations(rng, 2+rng.Intn(5), 60)
		engine := mustEngine(t, denoms)
		sorted := engine.SortedDenominations()
		table := minCoinTable(400, sorted)

		for total := 0; total <= 400; total++ {
			sol, err := engine.SolveDetailed(total)
			if err != nil {
				t.Fatalf("%v total %d: %v", denoms, total, err)
			}
			for _, q := range sol.Quantities {
				if q < 0 {
					t.Fatalf("%v total %d: negative quantity in %v", denoms, total, sol.Quantities)
				}
			}
			if got := weightedSum(denoms, sol.Quantities); got != total {
				t.Fatalf("%v total %d: quantities %v sum to %d", denoms, total, sol.Quantities, got)
			}
			if sol.Coins != int(table[total]) {
				t.Fatalf("%v total %d: %d coins, minimum is %d", denoms, total, sol.Coins, table[total])
			}
		}
	}
}

func TestExactMatchesUnprunedSearchForLargeTotals(t *testing.T) {
	t.Parallel()

	sets := [][]int{
		{25, 10, 6, 1},
		{9, 7, 1},
		{50, 20, 15, 7, 1},
	}
	for _, set := range sets {
		table := minCoinTable(999_999, set)
		for _, total := range []int{1_000, 12_345, 500_000, 999_999} {
			got := exact(total, set)
			if sum := weightedSum(set, got); sum != total {
				t.Fatalf("%v total %d: quantities %v sum to %d", set, total, got, sum)
			}
			coins := 0
			for _, q := range got {
				coins += q
			}
			if coins != int(table[total]) {
				t.Fatalf("%v total %d: %d coins, minimum is %d", set, total, coins, table[total])
			}
		}
	}
}

func TestExactKeepsFirstFoundOnTies(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	sets := [][]int{{5, 4, 3, 1}, {4, 3, 2, 1}, {3, 2, 1}, {25, 10, 6, 1}}
	for round := 0; round < 20; round++ {
		set := randomDenominations(rng, 2+rng.Intn(3), 30)
		slices.Sort(set)
		slices.Reverse(set)
		sets = append(sets, set)
	}

	for _, set := range sets {
		for total := 0; total <= 80; total++ {
			if diff := cmp.Diff(ascendingSearch(total, set), exact(total, set)); diff != "" {
				t.Fatalf("%v total %d (-want +got):\n%s", set, total, diff)
			}
		}
	}
}

func TestCanonicalSetsMatchGreedy(t *testing.T) {
	t.Parallel()

	for _, set := range [][]int{
		{25, 10, 5, 1},
		{200, 100, 50, 20, 10, 5, 2, 1},
	} {
		engine := mustEngine(t, set)
		if !engine.Canonical() {
			t.Fatalf("expected %v to be canonical", set)
		}
		if engine.Algorithm() != AlgorithmGreedy {
			t.Fatalf("expected greedy for %v, got %s", set, engine.Algorithm())
		}
		for total := 0; total <= 1_000; total++ {
			got := mustSolve(t, engine, total)
			if diff := cmp.Diff(greedy(total, set), got); diff != "" {
				t.Fatalf("%v total %d differs from greedy (-want +got):\n%s", set, total, diff)
			}
			if diff := cmp.Diff(exact(total, set), got); diff != "" {
				t.Fatalf("%v total %d differs from exact (-want +got):\n%s", set, total, diff)
			}
		}
	}
}

func TestIsCanonical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sorted []int
		want   bool
	}{
		{sorted: []int{1}, want: true},
		{sorted: []int{10, 1}, want: true},
		{sorted: []int{25, 10, 5, 1}, want: true},
		{sorted: []int{100, 50, 25, 10, 5, 1}, want: true},
		{sorted: []int{25, 10, 6, 1}, want: false},
		{sorted: []int{4, 3, 1}, want: false},
		{sorted: []int{5, 4, 3, 1}, want: false},
		{sorted: []int{3, 2, 1}, want: true},
	}

	for _, tc := range tests {
		if got := isCanonical(tc.sorted); got != tc.want {
			t.Fatalf("isCanonical(%v) = %t, want %t", tc.sorted, got, tc.want)
		}
	}
}

func TestHasUniqueOptima(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sorted []int
		want   bool
	}{
		{sorted: []int{1}, want: true},
		{sorted: []int{10, 1}, want: true},
		{sorted: []int{10, 5, 1}, want: true},
		{sorted: []int{25, 10, 5, 1}, want: true},
		{sorted: []int{200, 100, 50, 20, 10, 5, 2, 1}, want: true},
		{sorted: []int{3, 2, 1}, want: false},
		{sorted: []int{4, 3, 2, 1}, want: false},
	}

	for _, tc := range tests {
		if got := hasUniqueOptima(tc.sorted); got != tc.want {
			t.Fatalf("hasUniqueOptima(%v) = %t, want %t", tc.sorted, got, tc.want)
		}
	}

	engine := mustEngine(t, []int{3, 2, 1})
	if !engine.Canonical() || engine.Algorithm() != AlgorithmExact {
		t.Fatalf("expected canonical set with ties to use exact, got canonical=%t algorithm=%s", engine.Canonical(), engine.Algorithm())
	}
	if diff := cmp.Diff([]int{0, 2, 0}, mustSolve(t, engine, 4)); diff != "" {
		t.Fatalf("unexpected quantities (-want +got):\n%s", diff)
	}
}

func TestReservedLargest(t *testing.T) {
	t.Parallel()

	sorted := []int{25, 10, 6, 1}
	if got := reservedLargest(149, sorted); got != 0 {
		t.Fatalf("expected no reservation below the lcm, got %d", got)
	}
	// lcm 150; smaller denominations cover at most 140+144+149 = 433.
	if got, want := reservedLargest(999_999, sorted), 39_983; got != want {
		t.Fatalf("expected %d reserved coins, got %d", want, got)
	}
}

func TestSolutionBreakdown(t *testing.T) {
	t.Parallel()

	sol, err := mustEngine(t, []int{1, 5, 10, 25}).SolveDetailed(117)
	if err != nil {
		t.Fatalf("SolveDetailed returned error: %v", err)
	}
	want := []Coin{
		{Denomination: 1, Quantity: 2},
		{Denomination: 5, Quantity: 1},
		{Denomination: 10, Quantity: 1},
		{Denomination: 25, Quantity: 4},
	}
	if diff := cmp.Diff(want, sol.Breakdown()); diff != "" {
		t.Fatalf("unexpected breakdown (-want +got):\n%s", diff)
	}
	if sol.Coins != 8 {
		t.Fatalf("expected 8 coins, got %d", sol.Coins)
	}
}

func mustEngine(t *testing.T, denominations []int, opts ...Option) *Engine {
	t.Helper()

	engine, err := New(denominations, opts...)
	if err != nil {
		t.Fatalf("New(%v) returned error: %v", denominations, err)
	}
	return engine
}

func mustSolve(t *testing.T, engine *Engine, total int) []int {
	t.Helper()

	got, err := engine.Solve(total)
	if err != nil {
		t.Fatalf("Solve(%d) returned error: %v", total, err)
	}
	return got
}

// ascendingSearch tries every vector with quantities in ascending order,
// largest denomination outermost, and keeps the first with the fewest coins.
func ascendingSearch(total int, sorted []int) []int {
	var best []int
	bestCount := -1
	current := make([]int, len(sorted))

	var walk func(k, remaining, count int)
	walk = func(k, remaining, count int) {
		if k == len(sorted)-1 {
			current[k] = remaining
			if c := count + remaining; bestCount < 0 || c < bestCount {
				bestCount = c
				best = slices.Clone(current)
			}
			return
		}
		for q := 0; q*sorted[k] <= remaining; q++ {
			current[k] = q
			walk(k+1, remaining-q*sorted[k], count+q)
		}
	}
	walk(0, total, 0)
	return best
}

func weightedSum(denominations, quantities []int) int {
	sum := 0
	for i, d := range denominations {
		sum += d * quantities[i]
	}
	return sum
}

func asPairs(denominations, quantities []int) map[int]int {
	out := make(map[int]int, len(denominations))
	for i, d := range denominations {
		out[d] = quantities[i]
	}
	return out
}

func randomDenominations(rng *rand.Rand, n, max int) []int {
	seen := map[int]struct{}{1: {}}
	out := []int{1}
	for len(out) < n {
		d := 2 + rng.Intn(max-1)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func BenchmarkSolveGreedy(b *testing.B) {
	engine, err := New([]int{25, 10, 5, 1})
	if err != nil {
		b.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		if _, err := engine.Solve(999_999); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

func BenchmarkSolveExact(b *testing.B) {
	engine, err := New([]int{25, 10, 6, 1})
	if err != nil {
		b.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		if _, err := engine.Solve(999_999); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

func BenchmarkSolveExactCoprime(b *testing.B) {
	engine, err := New([]int{997, 991, 983, 977, 1})
	if err != nil {
		b.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		if _, err := engine.Solve(999_999); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
