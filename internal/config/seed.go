package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/vending-machine-simulator/internal/catalog"
	"github.com/fairyhunter13/vending-machine-simulator/internal/coin"
	"github.com/fairyhunter13/vending-machine-simulator/internal/vending"
)

// SeedFile is the YAML layout of a machine's initial contents.
type SeedFile struct {
	Products []catalog.Product `yaml:"products"`
	// Reserve maps a denomination face value to a coin count.
	Reserve map[int]uint64 `yaml:"reserve"`
}

// Seed is a validated catalog and reserve.
type Seed struct {
	Catalog catalog.Catalog
	Reserve coin.Coins
}

// DefaultSeed returns the factory catalog and float.
func DefaultSeed() Seed {
	return Seed{Catalog: catalog.Default(), Reserve: vending.DefaultFloat()}
}

// LoadSeed reads a YAML seed file. An empty path yields DefaultSeed.
func LoadSeed(path string) (Seed, error) {
	if path == "" {
		return DefaultSeed(), nil
	}
	data, err := ReadYAML(path)
	if err != nil {
		return Seed{}, err
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates a YAML seed document. Unknown fields are
// rejected.
func ParseSeed(data []byte) (Seed, error) {
	var f SeedFile
	if err := DecodeStrict(data, &f); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	cat, err := catalog.New(f.Products...)
	if err != nil {
		return Seed{}, fmt.Errorf("seed products: %w", err)
	}
	counts := make(map[coin.Denomination]uint64, len(f.Reserve))
	for v, n := range f.Reserve {
		d, err := coin.ParseDenomination(v)
		if err != nil {
			return Seed{}, fmt.Errorf("seed reserve: %w", err)
		}
		counts[d] = n
	}
	reserve, err := coin.FromCounts(counts)
	if err != nil {
		return Seed{}, fmt.Errorf("seed reserve: %w", err)
	}
	return Seed{Catalog: cat, Reserve: reserve}, nil
}

// DecodeStrict decodes a single YAML document into out, rejecting unknown
// fields. An empty document leaves out untouched.
func DecodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// ReadYAML reads a .yaml or .yml file.
func ReadYAML(path string) ([]byte, error) {
	path = filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported file format: %s (only YAML supported)", ext)
	}
	// #nosec G304 -- paths are provided by the operator via ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}
