package api

import (
	"errors"
	"net/http"

	"github.com/snoozelane/formsd/internal/forms"
)

// Redirect targets on the hosting site
const (
	waitlistBackURL = "/"
	contactBackURL  = "/contact-us.html"
)

// handlePreflight answers CORS preflight requests: 204, the CORS headers,
// no body
func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	corsHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleWaitlist handles POST /waitlist
func (s *Server) handleWaitlist(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeHTML(w, http.StatusBadRequest, errorPage("Invalid form submission.", waitlistBackURL))
		return
	}

	result, err := s.waitlist.SubmitSignup(r.Context(), r.PostFormValue(forms.FieldWaitlistEmail))
	if err != nil {
		s.writeSubmissionError(w, err, waitlistError, waitlistBackURL)
		return
	}

	w.Header().Set("X-Submission-ID", result.SubmissionID)

	if result.AlreadyRegistered {
		writeHTML(w, http.StatusOK, redirectPage("Already Registered",
			"You are already on the waitlist! Redirecting...", waitlistBackURL))
		return
	}

	writeHTML(w, http.StatusOK, successPage("Success",
		"Successfully joined waitlist! Redirecting...", waitlistBackURL))
}

// handleContact handles POST /contact
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeHTML(w, http.StatusBadRequest, errorPage("Invalid form submission.", contactBackURL))
		return
	}

	result, err := s.contact.SubmitInquiry(r.Context(),
		r.PostFormValue(forms.FieldName),
		r.PostFormValue(forms.FieldEmail),
		r.PostFormValue(forms.FieldMessage),
	)
	if err != nil {
		s.writeSubmissionError(w, err, contactError, contactBackURL)
		return
	}

	w.Header().Set("X-Submission-ID", result.SubmissionID)

	writeHTML(w, http.StatusOK, successPage("Message Sent",
		"Thank you for your message! We will get back to you soon. Redirecting...", contactBackURL))
}

// Per-form failure wording, matching the hosted pages
type errorText struct {
	missing  string
	upstream string
}

var (
	waitlistError = errorText{
		missing:  "Email is required.",
		upstream: "Failed to process signup.",
	}
	contactError = errorText{
		missing:  "All fields are required.",
		upstream: "Failed to send message. Please try again later.",
	}
)

// writeSubmissionError maps an orchestrator error to an HTML response
func (s *Server) writeSubmissionError(w http.ResponseWriter, err error, text errorText, backURL string) {
	var vErr *forms.ValidationError
	if errors.As(err, &vErr) {
		msg := text.missing
		if vErr.Kind == forms.ValidationInvalidEmail {
			msg = "Invalid email format."
		}
		writeHTML(w, http.StatusBadRequest, errorPage(msg, backURL))
		return
	}

	if errors.Is(err, forms.ErrMisconfigured) {
		s.logger.Error("form submission rejected", "error", err)
		writeHTML(w, http.StatusInternalServerError,
			errorPage("Server configuration error. Please try again later.", backURL))
		return
	}

	var uErr *forms.UpstreamError
	if errors.As(err, &uErr) {
		s.logger.Error("form submission failed", "op", uErr.Op, "error", uErr.Err)
		if s.config.VerboseErrors {
			writeHTML(w, http.StatusInternalServerError,
				verboseErrorPage(text.upstream, uErr.Err.Error(), backURL))
			return
		}
		writeHTML(w, http.StatusInternalServerError, errorPage(text.upstream, backURL))
		return
	}

	s.logger.Error("form submission failed", "error", err)
	writeHTML(w, http.StatusInternalServerError, errorPage(text.upstream, backURL))
}
