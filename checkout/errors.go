package checkout

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotSignedIn          = errors.New("sign in to place an order")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrRedemptionExceedsCap = errors.New("requested discount exceeds the loyalty redemption cap")
	// ErrPersistence wraps failures of the record store
	ErrPersistence = errors.New("order could not be saved")
	// ErrLoyaltyNotSettled is returned together with a placed order whose
	// loyalty settlement failed
	ErrLoyaltyNotSettled = errors.New("loyalty points not settled")
)

// ValidationError lists the checkout fields that are missing or invalid
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid checkout: " + strings.Join(parts, ", ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
