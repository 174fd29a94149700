package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidPercent  = errors.New("percentage is out of range")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrOverSettlement  = errors.New("settlement exceeds outstanding udhaar")
	ErrDuplicate       = errors.New("duplicate record")
)

// InsufficientStockError is returned when a product cannot cover the requested quantity.
type InsufficientStockError struct {
	ProductId string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available %d, requested %d", e.ProductId, e.Available, e.Requested)
}

func NewInsufficientStock(productId string, available, requested int) error {
	return &InsufficientStockError{ProductId: productId, Available: available, Requested: requested}
}

type NotFoundError struct {
	Entity string
	Id     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Id)
}

func NewNotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, Id: id}
}

// IsNotFound reports whether err is a NotFoundError, optionally for a given entity.
func IsNotFound(err error, entity string) bool {
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		return false
	}
	return entity == "" || nf.Entity == entity
}

// ValidationError carries the failing fields of an input struct as field -> rule.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+":"+e.Fields[k])
	}
	return "invalid input: " + strings.Join(parts, ", ")
}
