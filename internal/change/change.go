// Package change decides which coins to hand back as change.
//
// Greedy is the machine's default. It walks denominations from the largest
// down and takes as many of each as fit, so it can refuse an amount that a
// different combination of the held coins would have covered (for example 60
// from a reserve of {50:1 20:3}). Exact is an opt-in solver that finds such
// combinations.
package change

import (
	"errors"
	"fmt"
	"math"

	"github.com/fairyhunter13/vending-machine-simulator/internal/coin"
)

// ErrInsufficientChange is matched by every InsufficientChangeError.
var ErrInsufficientChange = errors.New("insufficient change")

// InsufficientChangeError reports an amount the reserve cannot pay out.
type InsufficientChangeError struct {
	Target    coin.Amount
	Remaining coin.Amount
}

func (e *InsufficientChangeError) Error() string {
	return fmt.Sprintf("cannot give change of %s: %s left uncovered", e.Target, e.Remaining)
}

func (e *InsufficientChangeError) Unwrap() error { return ErrInsufficientChange }

// Maker computes a breakdown of target from reserve. A successful result
// never holds more coins of a denomination than reserve does and always
// totals target. reserve is never modified.
type Maker func(reserve coin.Coins, target coin.Amount) (coin.Coins, error)

// Greedy hands out the largest denominations first.
func Greedy(reserve coin.Coins, target coin.Amount) (coin.Coins, error) {
	given, remaining := greedyCounts(reserve.Counts(), uint64(target), 0)
	if remaining != 0 {
		return coin.Coins{}, &InsufficientChangeError{Target: target, Remaining: coin.Amount(remaining)}
	}
	return coin.FromCounts(given)
}

// greedyCounts takes coins from working, largest first, until at most floor
// is left of target. working is decremented in place.
func greedyCounts(working map[coin.Denomination]uint64, target, floor uint64) (map[coin.Denomination]uint64, uint64) {
	ds := coin.Denominations()
	given := make(map[coin.Denomination]uint64, len(ds))
	remaining := target
	for i := len(ds) - 1; i >= 0 && remaining > floor; i-- {
		d := uint64(ds[i])
		want := remaining / d
		if floor > 0 {
			// Just enough to get down to floor; floor >= largest
			// denomination keeps this from overshooting past zero.
			want = (remaining - floor + d - 1) / d
		}
		give := min(want, working[ds[i]])
		if give == 0 {
			continue
		}
		given[ds[i]] = give
		working[ds[i]] -= give
		remaining -= give * d
	}
	return given, remaining
}

// MaxExactTarget bounds the amount Exact solves by dynamic programming. Any
// excess above it is first paid largest-first from the reserve, so memory
// stays bounded however large the pouch is.
const MaxExactTarget coin.Amount = 10000

// Exact looks for an exact breakdown that greedy selection may miss. Up to
// MaxExactTarget it returns the fewest-coin breakdown whenever one exists.
// Above it, the excess is paid largest-first before solving the rest.
func Exact(reserve coin.Coins, target coin.Amount) (coin.Coins, error) {
	if target == 0 {
		return coin.Of(), nil
	}
	if target > reserve.Total() {
		return coin.Coins{}, &InsufficientChangeError{Target: target, Remaining: target}
	}

	working := reserve.Counts()
	given := make(map[coin.Denomination]uint64)
	rest := uint64(target)
	if target > MaxExactTarget {
		given, rest = greedyCounts(working, rest, uint64(MaxExactTarget))
		if rest > uint64(MaxExactTarget) {
			return coin.Coins{}, &InsufficientChangeError{Target: target, Remaining: coin.Amount(rest)}
		}
	}

	solved, ok := solve(working, int(rest))
	if !ok {
		// Report what greedy would have left, it is the most useful hint.
		if _, err := Greedy(reserve, target); err != nil {
			return coin.Coins{}, err
		}
		return coin.Coins{}, &InsufficientChangeError{Target: target, Remaining: coin.Amount(rest)}
	}
	for d, n := range solved {
		given[d] += n
	}
	return coin.FromCounts(given)
}

// solve is a bounded knapsack over amounts 0..t minimising the coin count.
func solve(held map[coin.Denomination]uint64, t int) (map[coin.Denomination]uint64, bool) {
	ds := make([]coin.Denomination, 0, len(held))
	for _, d := range coin.Denominations() {
		if held[d] > 0 {
			ds = append(ds, d)
		}
	}

	const unreachable = math.MaxUint64
	best := make([]uint64, t+1)
	for a := 1; a <= t; a++ {
		best[a] = unreachable
	}
	take := make([][]uint64, len(ds))
	for i, d := range ds {
		step := int(d)
		limit := held[d]
		next := make([]uint64, t+1)
		copy(next, best)
		take[i] = make([]uint64, t+1)
		for a := 0; a <= t; a++ {
			if best[a] == unreachable {
				continue
			}
			for j := uint64(1); j <= limit && a+int(j)*step <= t; j++ {
				to := a + int(j)*step
				if best[a]+j < next[to] {
					next[to] = best[a] + j
					take[i][to] = j
				}
			}
		}
		best = next
	}
	if best[t] == unreachable {
		return nil, false
	}

	out := make(map[coin.Denomination]uint64, len(ds))
	a := t
	for i := len(ds) - 1; i >= 0; i-- {
		if j := take[i][a]; j > 0 {
			out[ds[i]] = j
			a -= int(j) * int(ds[i])
		}
	}
	return out, true
}

// ByName resolves a configured strategy name.
func ByName(name string) (Maker, error) {
	switch name {
	case "", "greedy":
		return Greedy, nil
	case "exact":
		return Exact, nil
	default:
		return nil, fmt.Errorf("unknown change strategy %q", name)
	}
}
