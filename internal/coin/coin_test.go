package coin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotal(t *testing.T) {
	assert.Equal(t, Amount(0), Coins{}.Total())
	assert.Equal(t, Amount(0), Of().Total())
	assert.Equal(t, Amount(88), Of(Fifty, Twenty, Ten, Five, Two, One).Total())
	assert.Equal(t, Amount(100), Of(Fifty, Fifty).Total())
}

func TestDepositDoesNotMutateReceiver(t *testing.T) {
	reserve := Of(Fifty, Twenty)
	got := reserve.Deposit(Of(Twenty, One))

	assert.Equal(t, uint64(2), got.Count(Twenty))
	assert.Equal(t, uint64(1), got.Count(One))
	assert.Equal(t, Amount(91), got.Total())
	assert.Equal(t, Amount(70), reserve.Total(), "receiver changed")
}

func TestDepositZeroValue(t *testing.T) {
	var reserve Coins
	got := reserve.Deposit(Of(Five))
	assert.Equal(t, Amount(5), got.Total())
}

func TestWithdraw(t *testing.T) {
	reserve := Of(Fifty, Twenty, Twenty, Ten)
	got := reserve.Withdraw(Of(Twenty, Ten))

	assert.True(t, got.Equal(Of(Fifty, Twenty)), "got %s", got)
	assert.Equal(t, Amount(100), reserve.Total(), "receiver changed")
}

func TestWithdrawMoreThanHeldPanics(t *testing.T) {
	reserve := Of(Twenty)
	assert.Panics(t, func() { reserve.Withdraw(Of(Twenty, Twenty)) })
	assert.Panics(t, func() { reserve.Withdraw(Of(Ten)) })
}

func TestEqualIgnoresZeroEntries(t *testing.T) {
	a, err := FromCounts(map[Denomination]uint64{Fifty: 1, Ten: 0})
	require.NoError(t, err)
	assert.True(t, a.Equal(Of(Fifty)))
	assert.False(t, a.Equal(Of(Fifty, One)))
	assert.True(t, Coins{}.Equal(Of()))
}

func TestListLargestFirst(t *testing.T) {
	c := Of(One, Fifty, Five, Fifty, Twenty)
	assert.Equal(t, []Denomination{Fifty, Fifty, Twenty, Five, One}, c.List())
	assert.Equal(t, uint64(5), c.Len())
	assert.Equal(t, "{50:2 20:1 5:1 1:1}", c.String())
}

func TestParseDenomination(t *testing.T) {
	for _, v := range []int{1, 2, 5, 10, 20, 50} {
		d, err := ParseDenomination(v)
		require.NoError(t, err)
		assert.Equal(t, Denomination(v), d)
	}
	for _, v := range []int{0, -1, 3, 25, 100} {
		_, err := ParseDenomination(v)
		assert.True(t, errors.Is(err, ErrUnknownDenomination), "value %d", v)
	}
}

func TestFromCountsRejectsUnknown(t *testing.T) {
	_, err := FromCounts(map[Denomination]uint64{3: 1})
	assert.ErrorIs(t, err, ErrUnknownDenomination)
}

func TestOfUnknownPanics(t *testing.T) {
	assert.Panics(t, func() { Of(Denomination(7)) })
}

func TestDenominationsAscendingCopy(t *testing.T) {
	ds := Denominations()
	require.Len(t, ds, 6)
	for i := 1; i < len(ds); i++ {
		assert.Less(t, ds[i-1], ds[i])
	}
	ds[0] = 99
	assert.Equal(t, One, Denominations()[0])
}
