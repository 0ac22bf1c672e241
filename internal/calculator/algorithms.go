package calculator

import "math"

// greedy takes as many of each denomination as fit, largest first.
// sorted must be descending and end in 1.
func greedy(total int, sorted []int) []int {
	quantities := make([]int, len(sorted))
	remaining := total
	for i, d := range sorted {
		quantities[i] = remaining / d
		remaining -= quantities[i] * d
	}
	return quantities
}

// exact returns a minimum-coin vector aligned to sorted (descending, ending in 1).
// Among vectors with the same coin count it returns the first one met when
// quantities are tried in ascending order, largest denomination first: the
// fewest coins of sorted[0], then of sorted[1], and so on.
func exact(total int, sorted []int) []int {
	quantities := make([]int, len(sorted))
	if total == 0 {
		return quantities
	}

	reserved := reservedLargest(total, sorted)
	quantities[0] = reserved
	remaining := total - reserved*sorted[0]

	// rest[a] is the fewest coins for a using only the denominations after k.
	table := make([]int32, remaining+1)
	last := len(sorted) - 1
	for k := 0; k < last && remaining > 0; k++ {
		d := sorted[k]
		rest := fillMinCoinTable(table[:remaining+1], sorted[k+1:])

		bestCount, bestQuantity := -1, 0
		for q := 0; q*d <= remaining; q++ {
			if c := q + int(rest[remaining-q*d]); bestCount < 0 || c < bestCount {
				bestCount, bestQuantity = c, q
			}
		}
		quantities[k] += bestQuantity
		remaining -= bestQuantity * d
	}
	quantities[last] += remaining
	return quantities
}

// reservedLargest returns how many coins of the largest denomination every
// optimal solution for total must contain.
//
// With L the lcm of all denominations, an optimal solution holds fewer than L/d
// coins of any smaller denomination d: L/d of them could be swapped for L/sorted[0]
// coins of the largest. The smaller denominations therefore cover at most
// sum(L-d), and the largest covers the rest. Shifting every optimal solution by
// the reserved coins keeps their relative order, so tie-breaking is unaffected.
func reservedLargest(total int, sorted []int) int {
	l := 1
	for _, d := range sorted {
		l = lcm(l, d)
		if l > total {
			return 0
		}
	}

	smallCover := 0
	for _, d := range sorted[1:] {
		smallCover += l - d
	}
	if total <= smallCover {
		return 0
	}

	largest := sorted[0]
	return (total - smallCover + largest - 1) / largest
}

// minCoinTable returns best[a], the fewest coins summing to a, for a in 0..limit.
func minCoinTable(limit int, sorted []int) []int32 {
	return fillMinCoinTable(make([]int32, limit+1), sorted)
}

// fillMinCoinTable overwrites best with the fewest coins for each index.
// sorted must contain 1.
func fillMinCoinTable(best []int32, sorted []int) []int32 {
	best[0] = 0
	for a := 1; a < len(best); a++ {
		best[a] = int32(a)
		for _, d := range sorted {
			if d > a {
				continue
			}
			if c := best[a-d] + 1; c < best[a] {
				best[a] = c
			}
		}
	}
	return best
}

// isCanonical reports whether greedy is optimal for every total.
//
// Kozen and Zaks showed that the smallest counterexample, if any, is below the
// sum of the two largest denominations, so only those amounts are checked.
func isCanonical(sorted []int) bool {
	if len(sorted) <= 2 {
		return true
	}

	bound := sorted[0] + sorted[1]
	best := minCoinTable(bound-1, sorted)
	for amount := 1; amount < bound; amount++ {
		if greedyCount(amount, sorted) != int(best[amount]) {
			return false
		}
	}
	return true
}

// hasUniqueOptima reports whether every total has exactly one minimum-coin
// vector, so greedy agrees with exact on ties. sorted must be canonical: a
// second optimum for any total then implies one for some total below
// 2*sorted[0], so only those are checked.
func hasUniqueOptima(sorted []int) bool {
	limit := 2*sorted[0] - 1
	best := make([]int32, limit+1)
	ways := make([]uint8, limit+1)
	for a := 1; a <= limit; a++ {
		best[a] = math.MaxInt32
	}
	ways[0] = 1

	for _, d := range sorted {
		for a := d; a <= limit; a++ {
			if best[a-d] == math.MaxInt32 {
				continue
			}
			switch c := best[a-d] + 1; {
			case c < best[a]:
				best[a], ways[a] = c, ways[a-d]
			case c == best[a]:
				ways[a] = min(2, ways[a]+ways[a-d])
			}
		}
	}

	for _, w := range ways {
		if w != 1 {
			return false
		}
	}
	return true
}

func greedyCount(total int, sorted []int) int {
	count := 0
	for _, d := range sorted {
		count += total / d
		total %= d
	}
	return count
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int) int {
	return a / gcd(a, b) * b
}
