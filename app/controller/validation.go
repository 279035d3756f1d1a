package controller

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"embroidery-backoffice/models"
)

var hundred = decimal.NewFromInt(100)

// NewValidator builds the request validator with the invoice rules registered
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateOrderLine, models.OrderLine{})
	v.RegisterStructValidation(validateDiscount, models.Discount{})
	v.RegisterStructValidation(validatePayment, models.Payment{})
	v.RegisterStructValidation(validateRecordPayment, models.RecordPaymentRequest{})
	v.RegisterStructValidation(validateSession, models.InvoiceSession{})
	return v
}

func validateOrderLine(sl validator.StructLevel) {
	line := sl.Current().Interface().(models.OrderLine)
	if line.ProductType == models.ProductTypePatches {
		if line.PricePerPatch == nil || line.PricePerPatch.IsNegative() {
			sl.ReportError(line.PricePerPatch, "pricePerPatch", "PricePerPatch", "required_for_patches", "")
		}
	}
}

func validateDiscount(sl validator.StructLevel) {
	d := sl.Current().Interface().(models.Discount)
	if d.Value.IsNegative() {
		sl.ReportError(d.Value, "value", "Value", "gte", "0")
	}
	if d.Type == models.DiscountTypePercentage && d.Value.GreaterThan(hundred) {
		sl.ReportError(d.Value, "value", "Value", "lte", "100")
	}
}

func validatePayment(sl validator.StructLevel) {
	p := sl.Current().Interface().(models.Payment)
	if !p.Amount.IsPositive() {
		sl.ReportError(p.Amount, "amount", "Amount", "gt", "0")
	}
}

func validateRecordPayment(sl validator.StructLevel) {
	req := sl.Current().Interface().(models.RecordPaymentRequest)
	if !req.Amount.IsPositive() {
		sl.ReportError(req.Amount, "amount", "Amount", "gt", "0")
	}
}

func validateSession(sl validator.StructLevel) {
	s := sl.Current().Interface().(models.InvoiceSession)
	switch s.OrderType {
	case models.OrderTypeRegular, models.OrderTypeRush, models.OrderTypeReorder, models.OrderTypeItemSample:
	default:
		sl.ReportError(s.OrderType, "orderType", "OrderType", "order_type", "")
	}
	for key, addOns := range s.AddOns {
		if addOns.BackLogo < 0 || addOns.Names < 0 || addOns.PlusSize < 0 {
			sl.ReportError(addOns, "addOns["+key+"]", "AddOns", "gte", "0")
		}
	}
}

// FieldError describes one failed validation rule
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// validateRequest validates v and writes a 422 response listing the failed rules
func validateRequest(w http.ResponseWriter, v *validator.Validate, req any) bool {
	err := v.Struct(req)
	if err == nil {
		return true
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error(), nil)
		return false
	}

	details := make([]FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		details = append(details, FieldError{Field: fe.Namespace(), Rule: fe.Tag(), Param: fe.Param()})
	}
	writeError(w, http.StatusUnprocessableEntity, "validation_failed", "request validation failed", details)
	return false
}
