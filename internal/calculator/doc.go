// Package calculator decomposes a total into the fewest coins drawn from a
// denomination set.
//
// An Engine is built once per denomination set with New and reused for any
// number of Solve calls. Results are always aligned to the order in which the
// denominations were supplied, while the algorithms work on a copy sorted
// largest first. Sets for which greedy decomposition is provably optimal and
// every total has a single optimum (such as 25, 10, 5, 1) are solved greedily;
// every other set is solved with a bounded dynamic program over amounts. When
// several decompositions tie, the one with the fewest coins of the largest
// denomination wins, then the fewest of the next, and so on.
//
// Rejected inputs produce a *ValidationError whose Kind tells callers which
// rule failed; errors.Is also matches the package's sentinel errors.
package calculator
