// Package forms holds the orchestration logic behind the Snooze Lane web
// forms: validation, the waitlist signup sequence, and the contact inquiry
// sequence. All state lives in the remote record store; orchestrators here
// are stateless and safe for concurrent use.
package forms

import (
	"context"

	"github.com/snoozelane/formsd/internal/airtable"
	"github.com/snoozelane/formsd/internal/resend"
)

// Airtable column names, shared by the orchestrators and the schema checker
const (
	ColEmail           = "Email"
	ColSignupNumber    = "Signup Number"
	ColPremiumEligible = "Premium Eligible"
	ColCouponCode      = "Coupon Code"
	ColDateSignedUp    = "Date Signed Up"
	ColName            = "Name"
	ColMessage         = "Message"
	ColDateSubmitted   = "Date Submitted"
)

// Submission outcome labels used for metrics
const (
	OutcomeCreated           = "created"
	OutcomeAlreadyRegistered = "already_registered"
	OutcomeRejected          = "rejected"
	OutcomeMisconfigured     = "misconfigured"
	OutcomeUpstreamError     = "upstream_error"
)

// RecordStore is the record-store surface the orchestrators need.
// *airtable.Client satisfies it.
type RecordStore interface {
	// Configured reports whether the store credentials are present
	Configured() bool

	// ListRecords queries records in a collection
	ListRecords(ctx context.Context, table string, opts airtable.ListOptions) (*airtable.RecordList, error)

	// CreateRecord creates one record in a collection
	CreateRecord(ctx context.Context, table string, fields airtable.Fields) (*airtable.Record, error)
}

// Mailer is the email-service surface the orchestrators need.
// *resend.Client satisfies it.
type Mailer interface {
	// Enabled reports whether an email credential is configured
	Enabled() bool

	// Send delivers one email
	Send(ctx context.Context, msg *resend.Message) (*resend.SendResponse, error)
}
