package pricing

import (
	"errors"
	"fmt"

	"embroidery-backoffice/models"
)

var (
	// ErrInvalidConfig is returned when a pricing catalog fails validation.
	ErrInvalidConfig = errors.New("invalid pricing config")
	// ErrMalformedCatalog is returned when tier brackets overlap, leave gaps or are out of order.
	ErrMalformedCatalog = errors.New("malformed pricing catalog")
)

// PricingLookupError reports a product/quantity combination the catalog cannot price
type PricingLookupError struct {
	ProductType string
	Quantity    int
	Embroidery  models.Embroidery
	Reason      string
}

func (e *PricingLookupError) Error() string {
	msg := fmt.Sprintf("no price for %q (quantity %d", e.ProductType, e.Quantity)
	if e.Embroidery != "" {
		msg += fmt.Sprintf(", embroidery %s", e.Embroidery)
	}
	msg += ")"
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// IsLookupError reports whether err is (or wraps) a *PricingLookupError
func IsLookupError(err error) bool {
	var target *PricingLookupError
	return errors.As(err, &target)
}
