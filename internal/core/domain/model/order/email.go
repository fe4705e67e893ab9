package order

import (
	"fmt"
	"strings"
	"time"

	"orderengine/internal/pkg/errs"

	"github.com/microcosm-cc/bluemonday"
)

// EmailStatus is the delivery outcome reported by the notification collaborator.
type EmailStatus string

const (
	EmailSent   EmailStatus = "sent"
	EmailFailed EmailStatus = "failed"
)

// Validate accepts EmailSent and EmailFailed only.
func (s EmailStatus) Validate() error {
	if s != EmailSent && s != EmailFailed {
		return errs.NewValueIsInvalidErrorWithCause("email_status", fmt.Errorf("%q is not sent or failed", string(s)))
	}
	return nil
}

// EmailRecord is an entry of the order's email history.
type EmailRecord struct {
	TemplateID string
	Subject    string
	Body       string
	To         string
	SentAt     time.Time
	Status     EmailStatus
}

// emailPolicy keeps user-generated-content safe markup in email bodies.
var emailPolicy = bluemonday.UGCPolicy()

// SanitizeEmailBody removes scripts, styles and unsafe attributes but keeps basic formatting.
func SanitizeEmailBody(body string) string {
	return strings.TrimSpace(emailPolicy.Sanitize(body))
}
