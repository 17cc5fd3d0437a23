// Package vending implements the purchase workflow of a single vending
// machine.
//
// A machine is always in exactly one of two states, each its own type:
//
//   - Idle holds the catalog and the coin reserve. It only accepts coins.
//   - InProcess additionally holds the pouch of coins inserted so far. It
//     accepts more coins, a product selection, or a reset.
//
// Every transition takes its receiver by value and returns a new value; no
// state is shared between the old and the new value. A failed selection
// returns a *PurchaseError whose Session field is the unchanged InProcess
// value, so inserted coins are never dropped.
package vending

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/fairyhunter13/vending-machine-simulator/internal/catalog"
	"github.com/fairyhunter13/vending-machine-simulator/internal/change"
	"github.com/fairyhunter13/vending-machine-simulator/internal/coin"
)

// State names the variant of a Session.
type State int

const (
	StateIdle State = iota
	StateInProcess
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInProcess:
		return "in_process"
	default:
		return "unknown"
	}
}

// Session is implemented only by Idle and InProcess.
type Session interface {
	State() State
	Catalog() catalog.Catalog
	Reserve() coin.Coins
	session()
}

var (
	_ Session = Idle{}
	_ Session = InProcess{}
)

// machine is the state shared by both variants.
type machine struct {
	catalog catalog.Catalog
	reserve coin.Coins
	maker   change.Maker
}

func (m machine) Catalog() catalog.Catalog { return m.catalog }
func (m machine) Reserve() coin.Coins      { return m.reserve }

// Option customises a new machine.
type Option func(*machine)

// WithChangeMaker replaces the default greedy change strategy.
func WithChangeMaker(mk change.Maker) Option {
	return func(m *machine) {
		if mk != nil {
			m.maker = mk
		}
	}
}

// Idle is a machine waiting for coins.
type Idle struct {
	machine
}

// New returns an idle machine over the given catalog and reserve.
func New(cat catalog.Catalog, reserve coin.Coins, opts ...Option) Idle {
	m := machine{catalog: cat, reserve: reserve.Clone(), maker: change.Greedy}
	for _, opt := range opts {
		opt(&m)
	}
	return Idle{machine: m}
}

// Default returns an idle machine with the factory catalog and float.
func Default(opts ...Option) Idle {
	return New(catalog.Default(), DefaultFloat(), opts...)
}

// DefaultFloat is the coin float a factory machine starts with.
func DefaultFloat() coin.Coins {
	return coin.Of(
		coin.Fifty,
		coin.Twenty, coin.Twenty,
		coin.Ten, coin.Ten,
		coin.Five, coin.Five,
		coin.Two, coin.Two, coin.Two, coin.Two,
		coin.One, coin.One, coin.One, coin.One,
	)
}

func (Idle) State() State { return StateIdle }
func (Idle) session()     {}

// InsertCoins starts a purchase with coins as the pouch.
func (m Idle) InsertCoins(coins coin.Coins) InProcess {
	return InProcess{
		machine: m.machine,
		id:      uuid.New(),
		pouch:   coins.Clone(),
	}
}

// InProcess is a machine holding a customer's inserted coins.
type InProcess struct {
	machine
	id    uuid.UUID
	pouch coin.Coins
}

func (InProcess) State() State { return StateInProcess }
func (InProcess) session()     {}

// ID identifies the purchase session for logging.
func (m InProcess) ID() uuid.UUID { return m.id }

// Pouch returns the coins inserted so far.
func (m InProcess) Pouch() coin.Coins { return m.pouch.Clone() }

// InsertCoins adds coins to the pouch.
func (m InProcess) InsertCoins(coins coin.Coins) InProcess {
	m.pouch = m.pouch.Deposit(coins)
	return m
}

// Purchase is the result of a committed sale.
type Purchase struct {
	Product   catalog.Product
	Change    coin.Coins
	Paid      coin.Coins
	SessionID uuid.UUID
	Machine   Idle
}

// SelectProduct attempts to sell one item of id. On success the pouch is
// added to the reserve, the change is taken out of it and stock drops by one.
// On failure nothing changes and the error carries the session.
func (m InProcess) SelectProduct(id string) (Purchase, error) {
	p, err := m.catalog.PriceAndStock(id)
	if err != nil {
		return Purchase{}, &PurchaseError{Kind: KindProductNotAvailable, ProductID: id, Session: m, cause: err}
	}

	paid := m.pouch.Total()
	if paid < p.Price {
		return Purchase{}, &PurchaseError{
			Kind:      KindNotEnoughMoney,
			ProductID: id,
			Expected:  p.Price,
			Got:       paid,
			Session:   m,
		}
	}

	// The pouch's own coins may be handed back as change.
	pending := m.reserve.Deposit(m.pouch)
	due := paid - p.Price
	given, err := m.maker(pending, due)
	if err != nil {
		return Purchase{}, &PurchaseError{Kind: KindCannotGiveChange, ProductID: id, Session: m, cause: err}
	}
	if given.Total() != due {
		panic(fmt.Sprintf("vending: change maker returned %s for %s", given.Total(), due))
	}

	next := machine{
		catalog: m.catalog.DecrementStock(id),
		reserve: pending.Withdraw(given),
		maker:   m.maker,
	}
	sold, _ := next.catalog.Get(id)
	return Purchase{
		Product:   sold,
		Change:    given,
		Paid:      m.pouch.Clone(),
		SessionID: m.id,
		Machine:   Idle{machine: next},
	}, nil
}

// Reset ends the session and hands back every inserted coin.
func (m InProcess) Reset() (Idle, coin.Coins) {
	return Idle{machine: m.machine}, m.pouch.Clone()
}
