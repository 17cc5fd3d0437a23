package vending

import (
	"errors"
	"fmt"

	"github.com/fairyhunter13/vending-machine-simulator/internal/coin"
)

var (
	ErrProductNotAvailable = errors.New("product not available")
	ErrNotEnoughMoney      = errors.New("not enough money")
	ErrCannotGiveChange    = errors.New("cannot give change")
)

// ErrorKind classifies a failed purchase.
type ErrorKind int

const (
	KindProductNotAvailable ErrorKind = iota + 1
	KindNotEnoughMoney
	KindCannotGiveChange
)

func (k ErrorKind) String() string {
	switch k {
	case KindProductNotAvailable:
		return "product_not_available"
	case KindNotEnoughMoney:
		return "not_enough_money"
	case KindCannotGiveChange:
		return "cannot_give_change"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindProductNotAvailable:
		return ErrProductNotAvailable
	case KindNotEnoughMoney:
		return ErrNotEnoughMoney
	case KindCannotGiveChange:
		return ErrCannotGiveChange
	default:
		return nil
	}
}

// PurchaseError is returned by InProcess.SelectProduct. Session is the
// session the call was made on, untouched, so the inserted coins stay
// available for another attempt or a Reset.
type PurchaseError struct {
	Kind      ErrorKind
	ProductID string
	// Expected and Got are set for KindNotEnoughMoney.
	Expected coin.Amount
	Got      coin.Amount
	Session  InProcess
	cause    error
}

func (e *PurchaseError) Error() string {
	switch e.Kind {
	case KindNotEnoughMoney:
		return fmt.Sprintf("not enough money: expected %s, got %s", e.Expected, e.Got)
	case KindProductNotAvailable:
		return fmt.Sprintf("product %s is not available", e.ProductID)
	case KindCannotGiveChange:
		if e.cause != nil {
			return fmt.Sprintf("cannot give change for %s: %v", e.ProductID, e.cause)
		}
		return fmt.Sprintf("cannot give change for %s", e.ProductID)
	default:
		return "purchase failed"
	}
}

// Is lets errors.Is match the kind sentinels.
func (e *PurchaseError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (e *PurchaseError) Unwrap() error { return e.cause }
