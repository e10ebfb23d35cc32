package forms

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/snoozelane/formsd/internal/airtable"
	"github.com/snoozelane/formsd/internal/mailtmpl"
	"github.com/snoozelane/formsd/internal/metrics"
	"github.com/snoozelane/formsd/internal/resend"
)

// ContactOptions configures a contact orchestrator
type ContactOptions struct {
	Table   string   // inquiry collection name
	From    string   // admin notification sender identity
	AdminTo []string // admin notification recipients
}

// InquiryResult is the outcome of an accepted contact submission
type InquiryResult struct {
	SubmissionID string
}

// Contact orchestrates the inquiry sequence: validate, create, admin
// notification. Duplicate inquiries are allowed.
type Contact struct {
	store  RecordStore
	mailer Mailer
	opts   ContactOptions
	logger *slog.Logger
	now    func() time.Time
}

// NewContact creates a contact orchestrator. mailer may be nil to disable
// admin notifications.
func NewContact(store RecordStore, mailer Mailer, opts ContactOptions, logger *slog.Logger) *Contact {
	return &Contact{
		store:  store,
		mailer: mailer,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// SubmitInquiry validates and records one contact inquiry, then best-effort
// notifies the admin.
func (c *Contact) SubmitInquiry(ctx context.Context, name, email, message string) (*InquiryResult, error) {
	name, err := RequireField(FieldName, name)
	if err != nil {
		metrics.IncInquiries(OutcomeRejected)
		return nil, err
	}
	email, err = RequireEmail(FieldEmail, email)
	if err != nil {
		metrics.IncInquiries(OutcomeRejected)
		return nil, err
	}
	message, err = RequireField(FieldMessage, message)
	if err != nil {
		metrics.IncInquiries(OutcomeRejected)
		return nil, err
	}

	if !c.store.Configured() {
		metrics.IncInquiries(OutcomeMisconfigured)
		return nil, ErrMisconfigured
	}

	result := &InquiryResult{SubmissionID: uuid.New().String()}
	log := c.logger.With("submission_id", result.SubmissionID)

	submittedAt := c.now()
	fields := airtable.Fields{
		ColName:          name,
		ColEmail:         email,
		ColMessage:       message,
		ColDateSubmitted: submittedAt.UTC().Format(time.RFC3339),
	}

	start := c.now()
	_, err = c.store.CreateRecord(ctx, c.opts.Table, fields)
	metrics.ObserveUpstream("airtable", "create", time.Since(start), err != nil)
	if err != nil {
		metrics.IncInquiries(OutcomeUpstreamError)
		return nil, &UpstreamError{Op: "create record", Write: true, Err: err}
	}

	log.Info("inquiry recorded", "name", name)

	c.notifyAdmin(ctx, log, name, email, message, submittedAt)

	metrics.IncInquiries(OutcomeCreated)
	return result, nil
}

// notifyAdmin sends the admin notification email. Best effort: failures are
// logged and swallowed.
func (c *Contact) notifyAdmin(ctx context.Context, log *slog.Logger, name, email, message string, submittedAt time.Time) {
	if c.mailer == nil || !c.mailer.Enabled() {
		return
	}

	const variant = "admin_notification"

	tmpl, err := mailtmpl.AdminNotification(name, email, message, submittedAt)
	if err != nil {
		log.Error("failed to render admin notification", "error", err)
		metrics.IncEmailsFailed(variant)
		return
	}

	start := c.now()
	_, err = c.mailer.Send(ctx, &resend.Message{
		From:    c.opts.From,
		To:      c.opts.AdminTo,
		ReplyTo: email,
		Subject: tmpl.Subject,
		HTML:    tmpl.HTML,
	})
	metrics.ObserveUpstream("resend", "send", time.Since(start), err != nil)
	if err != nil {
		log.Error("failed to send admin notification", "error", err)
		metrics.IncEmailsFailed(variant)
		return
	}

	log.Info("admin notification sent")
	metrics.IncEmailsSent(variant)
}
