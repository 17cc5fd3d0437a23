// Package coin defines the closed set of coin denominations and the coin
// multiset used for the machine reserve, the customer pouch and change.
package coin

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Denomination is a coin face value in minor units.
type Denomination uint64

const (
	One    Denomination = 1
	Two    Denomination = 2
	Five   Denomination = 5
	Ten    Denomination = 10
	Twenty Denomination = 20
	Fifty  Denomination = 50
)

// ErrUnknownDenomination is returned when a value is not a known coin.
var ErrUnknownDenomination = errors.New("unknown denomination")

var denominations = [...]Denomination{One, Two, Five, Ten, Twenty, Fifty}

// Denominations returns every known denomination in ascending order.
func Denominations() []Denomination {
	out := make([]Denomination, len(denominations))
	copy(out, denominations[:])
	return out
}

// ParseDenomination converts a face value into a Denomination.
func ParseDenomination(v int) (Denomination, error) {
	if v > 0 {
		d := Denomination(v)
		if d.Valid() {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %d", ErrUnknownDenomination, v)
}

// Valid reports whether d belongs to the closed denomination set.
func (d Denomination) Valid() bool {
	for _, known := range denominations {
		if d == known {
			return true
		}
	}
	return false
}

func (d Denomination) String() string {
	return strconv.FormatUint(uint64(d), 10)
}

// Amount is a sum of money in minor units.
type Amount uint64

func (a Amount) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

// Coins is a multiset of denominations. The zero value is an empty multiset.
// Operations never mutate the receiver.
type Coins struct {
	counts map[Denomination]uint64
}

// Of builds a multiset from a list of coins.
func Of(ds ...Denomination) Coins {
	c := Coins{counts: make(map[Denomination]uint64, len(ds))}
	for _, d := range ds {
		mustKnow(d)
		c.counts[d]++
	}
	return c
}

// FromCounts builds a multiset from per-denomination counts.
func FromCounts(counts map[Denomination]uint64) (Coins, error) {
	c := Coins{counts: make(map[Denomination]uint64, len(counts))}
	for d, n := range counts {
		if !d.Valid() {
			return Coins{}, fmt.Errorf("%w: %d", ErrUnknownDenomination, d)
		}
		if n > 0 {
			c.counts[d] = n
		}
	}
	return c, nil
}

// Count returns how many coins of d the multiset holds.
func (c Coins) Count(d Denomination) uint64 {
	return c.counts[d]
}

// Len returns the number of coins.
func (c Coins) Len() uint64 {
	var n uint64
	for _, v := range c.counts {
		n += v
	}
	return n
}

// Total returns the face value of all coins.
func (c Coins) Total() Amount {
	var sum Amount
	for d, n := range c.counts {
		sum += Amount(uint64(d) * n)
	}
	return sum
}

// Clone returns an independent copy.
func (c Coins) Clone() Coins {
	out := Coins{counts: make(map[Denomination]uint64, len(c.counts))}
	for d, n := range c.counts {
		if n > 0 {
			out.counts[d] = n
		}
	}
	return out
}

// Deposit returns c with every coin of other added.
func (c Coins) Deposit(other Coins) Coins {
	out := c.Clone()
	for d, n := range other.counts {
		if n > 0 {
			out.counts[d] += n
		}
	}
	return out
}

// Withdraw returns c with every coin of other removed. Withdrawing more coins
// of a denomination than c holds is a programming error and panics.
func (c Coins) Withdraw(other Coins) Coins {
	out := c.Clone()
	for d, n := range other.counts {
		have := out.counts[d]
		if n > have {
			panic(fmt.Sprintf("coin: withdraw %d x %s from reserve holding %d", n, d, have))
		}
		if have == n {
			delete(out.counts, d)
			continue
		}
		out.counts[d] = have - n
	}
	return out
}

// Equal reports whether both multisets hold the same coins.
func (c Coins) Equal(other Coins) bool {
	for _, d := range denominations {
		if c.counts[d] != other.counts[d] {
			return false
		}
	}
	return true
}

// Counts returns a copy of the non-zero per-denomination counts.
func (c Coins) Counts() map[Denomination]uint64 {
	return c.Clone().counts
}

// List expands the multiset into individual coins, largest first.
func (c Coins) List() []Denomination {
	out := make([]Denomination, 0, c.Len())
	for i := len(denominations) - 1; i >= 0; i-- {
		d := denominations[i]
		for n := c.counts[d]; n > 0; n-- {
			out = append(out, d)
		}
	}
	return out
}

// String renders the multiset as "{50:1 20:2}", largest denomination first.
func (c Coins) String() string {
	keys := make([]Denomination, 0, len(c.counts))
	for d, n := range c.counts {
		if n > 0 {
			keys = append(keys, d)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] > keys[j] })
	parts := make([]string, len(keys))
	for i, d := range keys {
		parts[i] = fmt.Sprintf("%s:%d", d, c.counts[d])
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func mustKnow(d Denomination) {
	if !d.Valid() {
		panic(fmt.Sprintf("coin: unknown denomination %d", d))
	}
}
