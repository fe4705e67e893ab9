package order

import (
	"fmt"
	"html"
	"strings"
	"time"

	"orderengine/internal/pkg/errs"

	"github.com/microcosm-cc/bluemonday"
)

// Visibility says who may read a note.
type Visibility string

const (
	VisibilityInternal Visibility = "internal"
	VisibilityCustomer Visibility = "customer"
)

// Validate accepts VisibilityInternal and VisibilityCustomer only.
func (v Visibility) Validate() error {
	if v != VisibilityInternal && v != VisibilityCustomer {
		return errs.NewValueIsInvalidErrorWithCause("visibility", fmt.Errorf("%q is not internal or customer", string(v)))
	}
	return nil
}

// Note is an append-only remark attached to an order.
type Note struct {
	Content    string
	Visibility Visibility
	CreatedAt  time.Time
}

// MaxNoteLength bounds sanitized note content, in bytes.
const MaxNoteLength = 4000

// textPolicy strips every tag. bluemonday policies are safe for concurrent use.
var textPolicy = bluemonday.StrictPolicy()

// SanitizeText removes HTML markup from free text and trims surrounding whitespace.
// Entities escaped by the policy are decoded back so plain text round-trips.
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}
