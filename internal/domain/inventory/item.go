package inventory

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrOwnerRequired   = errors.New("owner id is required")
	ErrNameRequired    = errors.New("item name is required")
	ErrInvalidQuantity = errors.New("quantity must be a non-negative number")
	ErrInvalidUnit     = errors.New("unknown unit")
	ErrItemNotFound    = errors.New("inventory item not found")
)

// Unit is the measure an item's quantity is expressed in.
type Unit string

const (
	UnitPiece      Unit = "unit"
	UnitGram       Unit = "g"
	UnitKilogram   Unit = "kg"
	UnitMilliliter Unit = "ml"
	UnitLiter      Unit = "l"
	UnitCup        Unit = "cup"
	UnitTablespoon Unit = "tbsp"
	UnitTeaspoon   Unit = "tsp"
	UnitPack       Unit = "pack"
)

var units = []Unit{UnitPiece, UnitGram, UnitKilogram, UnitMilliliter, UnitLiter, UnitCup, UnitTablespoon, UnitTeaspoon, UnitPack}

// ParseUnit accepts a unit code case-insensitively; empty means UnitPiece.
func ParseUnit(raw string) (Unit, error) {
	value := Unit(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return UnitPiece, nil
	}
	for _, u := range units {
		if u == value {
			return u, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidUnit, raw)
}

// Item is one pantry entry.
type Item struct {
	ID        string  `json:"id"`
	OwnerID   string  `json:"-"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      Unit    `json:"unit"`
	CreatedAt string  `json:"createdAt"`
}

// NewItemInput is the validated shape for adding an item.
type NewItemInput struct {
	OwnerID  string
	Name     string
	Quantity float64
	Unit     string
}

// Normalize trims text fields and validates the input.
func (in NewItemInput) Normalize() (NewItemInput, Unit, error) {
	in.OwnerID = strings.TrimSpace(in.OwnerID)
	in.Name = strings.TrimSpace(in.Name)
	if in.OwnerID == "" {
		return in, "", ErrOwnerRequired
	}
	if in.Name == "" {
		return in, "", ErrNameRequired
	}
	if in.Quantity < 0 || math.IsNaN(in.Quantity) || math.IsInf(in.Quantity, 0) {
		return in, "", ErrInvalidQuantity
	}
	unit, err := ParseUnit(in.Unit)
	if err != nil {
		return in, "", err
	}
	return in, unit, nil
}

// Names returns item names in inventory order.
func Names(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}
