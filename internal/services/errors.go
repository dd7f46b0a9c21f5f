package services

import (
  "errors"
  "fmt"
  "strings"
)

// Every failure a buyer or farmer can cause is a business-rule rejection,
// not a system fault. Handlers translate these into 4xx responses; anything
// else bubbles up as a 500.
var (
  ErrNotFound          = errors.New("resource not found")
  ErrEmptyCart         = errors.New("Your cart is empty.")
  ErrMissingFields     = errors.New("All fields are required.")
  ErrInvalidNumber     = errors.New("Price and stock must be valid numbers.")
  ErrInvalidCategory   = errors.New("Unknown product category.")
  ErrFarmerOnly        = errors.New("Only farmers can access this page.")
  ErrNotPendingOrder   = errors.New("Only pending orders can be cancelled.")
  ErrInvalidQuantity   = errors.New("Quantity must be a valid number.")
  ErrEmailTaken        = errors.New("Email is already registered")
  ErrUsernameTaken     = errors.New("Username is already taken")
  ErrInvalidLogin      = errors.New("Invalid email or password")
  ErrPasswordMismatch  = errors.New("Passwords do not match.")
)

type StockShortage struct {
  ProductName string `json:"product_name"`
  Available   int    `json:"available"`
  Requested   int    `json:"requested"`
}

type InsufficientStockError struct {
  // Message overrides the default listing, used by the cart-update path
  // which reports a single product in its own words.
  Message   string
  Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
  if e.Message != "" {
    return e.Message
  }
  parts := make([]string, 0, len(e.Shortages))
  for _, s := range e.Shortages {
    parts = append(parts, fmt.Sprintf("%s (Available: %d, Requested: %d)", s.ProductName, s.Available, s.Requested))
  }
  return "Insufficient stock for: " + strings.Join(parts, ", ")
}

func IsBusinessError(err error) bool {
  var stockErr *InsufficientStockError
  if errors.As(err, &stockErr) {
    return true
  }
  switch {
  case errors.Is(err, ErrNotFound),
    errors.Is(err, ErrEmptyCart),
    errors.Is(err, ErrMissingFields),
    errors.Is(err, ErrInvalidNumber),
    errors.Is(err, ErrInvalidCategory),
    errors.Is(err, ErrFarmerOnly),
    errors.Is(err, ErrNotPendingOrder),
    errors.Is(err, ErrInvalidQuantity),
    errors.Is(err, ErrEmailTaken),
    errors.Is(err, ErrUsernameTaken),
    errors.Is(err, ErrInvalidLogin),
    errors.Is(err, ErrPasswordMismatch):
    return true
  }
  return false
}
