// Package checkout validates the delivery and payment form submitted with
// an order.
package checkout

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"foodfleet/storefront-svc/internal/domain"
)

const (
	PaymentCreditCard   = "creditCard"
	PaymentPaypal       = "paypal"
	PaymentBankTransfer = "bankTransfer"
)

var (
	postalCodePattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	expiryPattern     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	digitsPattern     = regexp.MustCompile(`^\d+$`)
)

type Form struct {
	FullName      string `json:"full_name" validate:"min=2"`
	Address       string `json:"address" validate:"min=5"`
	City          string `json:"city" validate:"min=2"`
	PostalCode    string `json:"postal_code" validate:"postal_code"`
	Country       string `json:"country" validate:"min=2"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=creditCard paypal bankTransfer"`
	CardNumber    string `json:"card_number,omitempty"`
	ExpiryDate    string `json:"expiry_date,omitempty"`
	CVC           string `json:"cvc,omitempty"`
}

// Delivery strips payment details from the form.
func (f Form) Delivery() domain.DeliveryDetails {
	return domain.DeliveryDetails{
		FullName:      strings.TrimSpace(f.FullName),
		Address:       strings.TrimSpace(f.Address),
		City:          strings.TrimSpace(f.City),
		PostalCode:    strings.TrimSpace(f.PostalCode),
		Country:       strings.TrimSpace(f.Country),
		PaymentMethod: f.PaymentMethod,
	}
}

var messages = map[string]string{
	"full_name":      "Full name must be at least 2 characters.",
	"address":        "Address must be at least 5 characters.",
	"city":           "City must be at least 2 characters.",
	"postal_code":    "Invalid postal code format.",
	"country":        "Country is required.",
	"payment_method": "You need to select a payment method.",
	"card_number":    "Credit card details are invalid or incomplete.",
}

// ValidationErrors maps a form field to the message shown next to it.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "invalid checkout form: " + strings.Join(parts, "; ")
}

type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("postal_code", func(fl validator.FieldLevel) bool {
		return postalCodePattern.MatchString(fl.Field().String())
	})
	v.RegisterStructValidation(cardDetails, Form{})
	return &Validator{v: v}
}

// Validate returns nil or ValidationErrors.
func (val *Validator) Validate(f Form) error {
	f = trimmed(f)
	err := val.v.Struct(f)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := ValidationErrors{}
	for _, fe := range fieldErrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		msg, ok := messages[field]
		if !ok {
			msg = "Invalid value."
		}
		out[field] = msg
	}
	return out
}

func cardDetails(sl validator.StructLevel) {
	f := sl.Current().Interface().(Form)
	if f.PaymentMethod != PaymentCreditCard {
		return
	}
	valid := len(f.CardNumber) == 16 && digitsPattern.MatchString(f.CardNumber) &&
		expiryPattern.MatchString(f.ExpiryDate) &&
		len(f.CVC) == 3 && digitsPattern.MatchString(f.CVC)
	if !valid {
		sl.ReportError(f.CardNumber, "card_number", "CardNumber", "card_details", "")
	}
}

func trimmed(f Form) Form {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Address = strings.TrimSpace(f.Address)
	f.City = strings.TrimSpace(f.City)
	f.PostalCode = strings.TrimSpace(f.PostalCode)
	f.Country = strings.TrimSpace(f.Country)
	f.CardNumber = strings.ReplaceAll(f.CardNumber, " ", "")
	f.ExpiryDate = strings.TrimSpace(f.ExpiryDate)
	f.CVC = strings.TrimSpace(f.CVC)
	return f
}
