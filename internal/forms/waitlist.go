package forms

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/snoozelane/formsd/internal/airtable"
	"github.com/snoozelane/formsd/internal/mailtmpl"
	"github.com/snoozelane/formsd/internal/metrics"
	"github.com/snoozelane/formsd/internal/resend"
)

// WaitlistOptions configures a waitlist orchestrator
type WaitlistOptions struct {
	Table         string // signup collection name
	PremiumLimit  int    // highest signup number that earns a coupon
	CouponPrefix  string // e.g. "SNOOZE100"
	CountPageSize int    // page size bound on the count query
	SiteURL       string // linked from welcome emails
	From          string // welcome email sender identity
}

// SignupResult is the outcome of an accepted signup submission
type SignupResult struct {
	SubmissionID string

	// AlreadyRegistered means the email was found in the store; no record
	// was created and no email was sent. The remaining fields are zero.
	AlreadyRegistered bool

	SignupNumber    int
	PremiumEligible bool
	CouponCode      string // empty unless PremiumEligible
}

// Waitlist orchestrates the signup sequence: duplicate check, count, create,
// welcome email
type Waitlist struct {
	store  RecordStore
	mailer Mailer
	opts   WaitlistOptions
	logger *slog.Logger
	now    func() time.Time
}

// NewWaitlist creates a waitlist orchestrator. mailer may be nil to disable
// welcome emails.
func NewWaitlist(store RecordStore, mailer Mailer, opts WaitlistOptions, logger *slog.Logger) *Waitlist {
	return &Waitlist{
		store:  store,
		mailer: mailer,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// CouponCode derives the premium access code for a signup number. Padding is
// four digits; numbers past 9999 simply use more digits.
func CouponCode(prefix string, signupNumber int) string {
	return fmt.Sprintf("%s-%04d", prefix, signupNumber)
}

// SubmitSignup runs the full signup sequence for one email address.
//
// The sequence is duplicate check, bounded count, create, best-effort
// welcome email. Repeat submissions of a known email are idempotent: they
// return AlreadyRegistered without creating a record or sending mail. The
// count and create are not mutually excluded across concurrent requests, so
// two simultaneous signups can read the same count and share a signup
// number; that gap is accepted for the expected traffic.
func (w *Waitlist) SubmitSignup(ctx context.Context, email string) (*SignupResult, error) {
	email, err := RequireEmail(FieldWaitlistEmail, email)
	if err != nil {
		metrics.IncSignups(OutcomeRejected)
		return nil, err
	}

	if !w.store.Configured() {
		metrics.IncSignups(OutcomeMisconfigured)
		return nil, ErrMisconfigured
	}

	result := &SignupResult{SubmissionID: uuid.New().String()}
	log := w.logger.With("submission_id", result.SubmissionID)

	// Duplicate check: exact, case-sensitive match on the email column
	start := w.now()
	existing, err := w.store.ListRecords(ctx, w.opts.Table, airtable.ListOptions{
		FilterByFormula: airtable.FormulaEq(ColEmail, email),
		MaxRecords:      1,
	})
	metrics.ObserveUpstream("airtable", "duplicate_check", time.Since(start), err != nil)
	if err != nil {
		metrics.IncSignups(OutcomeUpstreamError)
		return nil, &UpstreamError{Op: "duplicate check", Err: err}
	}

	if len(existing.Records) > 0 {
		log.Info("signup already registered")
		metrics.IncSignups(OutcomeAlreadyRegistered)
		result.AlreadyRegistered = true
		return result, nil
	}

	// Signup number comes from a bounded count query. The bound equals the
	// premium limit, so numbering is exact while coupons are still being
	// issued and saturates afterwards.
	start = w.now()
	page, err := w.store.ListRecords(ctx, w.opts.Table, airtable.ListOptions{
		MaxRecords: w.opts.CountPageSize,
	})
	metrics.ObserveUpstream("airtable", "count", time.Since(start), err != nil)
	if err != nil {
		metrics.IncSignups(OutcomeUpstreamError)
		return nil, &UpstreamError{Op: "signup count", Err: err}
	}

	result.SignupNumber = len(page.Records) + 1
	result.PremiumEligible = result.SignupNumber <= w.opts.PremiumLimit
	if result.PremiumEligible {
		result.CouponCode = CouponCode(w.opts.CouponPrefix, result.SignupNumber)
	}

	fields := airtable.Fields{
		ColEmail:           email,
		ColSignupNumber:    result.SignupNumber,
		ColPremiumEligible: result.PremiumEligible,
		ColDateSignedUp:    w.now().UTC().Format(time.RFC3339),
	}
	if result.CouponCode != "" {
		fields[ColCouponCode] = result.CouponCode
	}

	start = w.now()
	_, err = w.store.CreateRecord(ctx, w.opts.Table, fields)
	metrics.ObserveUpstream("airtable", "create", time.Since(start), err != nil)
	if err != nil {
		metrics.IncSignups(OutcomeUpstreamError)
		return nil, &UpstreamError{Op: "create record", Write: true, Err: err}
	}

	log.Info("signup recorded",
		"signup_number", result.SignupNumber,
		"premium_eligible", result.PremiumEligible,
	)

	w.sendWelcome(ctx, log, email, result)

	metrics.IncSignups(OutcomeCreated)
	return result, nil
}

// sendWelcome delivers the welcome email. Delivery is best effort: any
// failure is logged and swallowed, the signup outcome never changes.
func (w *Waitlist) sendWelcome(ctx context.Context, log *slog.Logger, email string, result *SignupResult) {
	if w.mailer == nil || !w.mailer.Enabled() {
		return
	}

	var (
		tmpl    *mailtmpl.Email
		variant string
		err     error
	)
	if result.PremiumEligible {
		variant = "premium_welcome"
		tmpl, err = mailtmpl.PremiumWelcome(result.SignupNumber, w.opts.PremiumLimit, result.CouponCode, w.opts.SiteURL)
	} else {
		variant = "standard_welcome"
		tmpl, err = mailtmpl.StandardWelcome(w.opts.PremiumLimit, w.opts.SiteURL)
	}
	if err != nil {
		log.Error("failed to render welcome email", "variant", variant, "error", err)
		metrics.IncEmailsFailed(variant)
		return
	}

	start := w.now()
	_, err = w.mailer.Send(ctx, &resend.Message{
		From:    w.opts.From,
		To:      []string{email},
		Subject: tmpl.Subject,
		HTML:    tmpl.HTML,
	})
	metrics.ObserveUpstream("resend", "send", time.Since(start), err != nil)
	if err != nil {
		log.Error("failed to send welcome email", "variant", variant, "error", err)
		metrics.IncEmailsFailed(variant)
		return
	}

	log.Info("welcome email sent", "variant", variant)
	metrics.IncEmailsSent(variant)
}
