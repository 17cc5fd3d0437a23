// Package catalog holds the products a machine sells with their price and
// remaining stock.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/fairyhunter13/vending-machine-simulator/internal/coin"
)

// DefaultStock is the number of items of each kind a default catalog holds.
const DefaultStock uint32 = 10

var (
	// ErrProductNotAvailable covers both unknown and sold-out products.
	ErrProductNotAvailable = errors.New("product not available")
	// ErrInvalidProduct is returned by New for malformed entries.
	ErrInvalidProduct = errors.New("invalid product")
)

// Product represents the current state of a product.
type Product struct {
	ID    string      `json:"id" yaml:"id"`
	Price coin.Amount `json:"price" yaml:"price"`
	Stock uint32      `json:"stock" yaml:"stock"`
}

// Catalog maps product ids to products. Methods never mutate the receiver.
type Catalog struct {
	m map[string]Product
}

// New builds a catalog from the given products.
func New(products ...Product) (Catalog, error) {
	c := Catalog{m: make(map[string]Product, len(products))}
	for _, p := range products {
		if p.ID == "" {
			return Catalog{}, fmt.Errorf("%w: empty id", ErrInvalidProduct)
		}
		if p.Price == 0 {
			return Catalog{}, fmt.Errorf("%w: %s has zero price", ErrInvalidProduct, p.ID)
		}
		if _, dup := c.m[p.ID]; dup {
			return Catalog{}, fmt.Errorf("%w: duplicate id %s", ErrInvalidProduct, p.ID)
		}
		c.m[p.ID] = p
	}
	return c, nil
}

// Default returns the factory catalog.
func Default() Catalog {
	c, err := New(
		Product{ID: "KitKat", Price: 35, Stock: DefaultStock},
		Product{ID: "Oreo", Price: 45, Stock: DefaultStock},
		Product{ID: "Lays", Price: 50, Stock: DefaultStock},
		Product{ID: "Doritos", Price: 50, Stock: DefaultStock},
		Product{ID: "Coca-Cola", Price: 60, Stock: DefaultStock},
		Product{ID: "Pepsi", Price: 60, Stock: DefaultStock},
		Product{ID: "Water", Price: 20, Stock: DefaultStock},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns the product with the given id, sold out or not.
func (c Catalog) Get(id string) (Product, bool) {
	p, ok := c.m[id]
	return p, ok
}

// PriceAndStock returns the product if it can be sold.
func (c Catalog) PriceAndStock(id string) (Product, error) {
	p, ok := c.m[id]
	if !ok || p.Stock == 0 {
		return Product{}, fmt.Errorf("%w: %s", ErrProductNotAvailable, id)
	}
	return p, nil
}

// DecrementStock returns a catalog with one item of id removed. The caller
// must have checked availability first; a sold-out or unknown id panics.
func (c Catalog) DecrementStock(id string) Catalog {
	p, ok := c.m[id]
	if !ok || p.Stock == 0 {
		panic(fmt.Sprintf("catalog: decrement stock of unavailable product %q", id))
	}
	out := c.clone()
	p.Stock--
	out.m[id] = p
	return out
}

// Products returns every product sorted by id.
func (c Catalog) Products() []Product {
	out := make([]Product, 0, len(c.m))
	for _, p := range c.m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of distinct products.
func (c Catalog) Len() int {
	return len(c.m)
}

func (c Catalog) clone() Catalog {
	out := Catalog{m: make(map[string]Product, len(c.m))}
	for id, p := range c.m {
		out.m[id] = p
	}
	return out
}
