package order

import (
	"strings"

	"orderengine/internal/pkg/errs"
)

// Customer is the contact snapshot taken at checkout.
// Editing it never touches the customer directory.
type Customer struct {
	Name    string
	Email   string
	Phone   string
	Company string
}

// Validate requires a name and a plausible email address.
func (c Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errs.NewValueIsRequiredError("customer.name")
	}
	return validateEmail("customer.email", c.Email)
}

func validateEmail(param, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errs.NewValueIsRequiredError(param)
	}
	at := strings.LastIndex(email, "@")
	if at < 1 || at == len(email)-1 || strings.ContainsAny(email, " \t\r\n") {
		return errs.NewValueIsInvalidError(param)
	}
	return nil
}

// Address is a postal address snapshot.
type Address struct {
	Line1      string
	Line2      string
	City       string
	Region     string
	PostalCode string
	Country    string
}

// IsZero reports whether no field is set.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Validate requires line1, city and country once any field is set.
// The zero Address is valid and means "not provided".
func (a Address) Validate(param string) error {
	if a.IsZero() {
		return nil
	}
	if strings.TrimSpace(a.Line1) == "" {
		return errs.NewValueIsRequiredError(param + ".line1")
	}
	if strings.TrimSpace(a.City) == "" {
		return errs.NewValueIsRequiredError(param + ".city")
	}
	if strings.TrimSpace(a.Country) == "" {
		return errs.NewValueIsRequiredError(param + ".country")
	}
	return nil
}

// Tracking holds the carrier reference of a dispatched parcel.
type Tracking struct {
	CarrierID      string
	TrackingNumber string
	TrackingURL    string
}

// Dimensions of a packed parcel, in centimetres.
type Dimensions struct {
	Length float64
	Width  float64
	Height float64
}

// Package is what CompletePacking records about the parcel.
type Package struct {
	Weight     float64
	Dimensions Dimensions
}

// Validate rejects a negative weight or any negative dimension. Zero values
// are accepted for parcels the warehouse did not measure.
func (p Package) Validate() error {
	if p.Weight < 0 {
		return errs.NewValueIsOutOfRangeError("package_weight", p.Weight, 0, "unbounded")
	}
	if p.Dimensions.Length < 0 || p.Dimensions.Width < 0 || p.Dimensions.Height < 0 {
		return errs.NewValueIsInvalidError("package_dimensions")
	}
	return nil
}
