package mailtmpl

import (
	"strings"
	"testing"
	"time"
)

func TestPremiumWelcome(t *testing.T) {
	email, err := PremiumWelcome(7, 100, "SNOOZE100-0007", "https://snoozelaneapp.com")
	if err != nil {
		t.Fatalf("PremiumWelcome error = %v", err)
	}

	if email.Subject != "🎉 Welcome to Snooze Lane! You're #7 of 100" {
		t.Errorf("Subject = %q", email.Subject)
	}
	for _, want := range []string{
		"SNOOZE100-0007",
		"#7 of 100",
		`href="https://snoozelaneapp.com"`,
		"https://snoozelaneapp.com/contact-us.html",
	} {
		if !strings.Contains(email.HTML, want) {
			t.Errorf("body should contain %q", want)
		}
	}
}

func TestStandardWelcome(t *testing.T) {
	email, err := StandardWelcome(100, "https://snoozelaneapp.com")
	if err != nil {
		t.Fatalf("StandardWelcome error = %v", err)
	}

	if email.Subject != "Thank You for Joining Snooze Lane!" {
		t.Errorf("Subject = %q", email.Subject)
	}
	if !strings.Contains(email.HTML, "the first 100 spots") {
		t.Error("body should mention the claimed premium spots")
	}
	if strings.Contains(email.HTML, "coupon-code") {
		t.Error("standard welcome should not contain a coupon box")
	}
}

func TestAdminNotification(t *testing.T) {
	submitted := time.Date(2025, time.March, 14, 15, 4, 0, 0, time.UTC)
	email, err := AdminNotification("Ada Lovelace", "ada@example.com", "Hello there", submitted)
	if err != nil {
		t.Fatalf("AdminNotification error = %v", err)
	}

	if email.Subject != "New Contact Form Submission from Ada Lovelace" {
		t.Errorf("Subject = %q", email.Subject)
	}
	for _, want := range []string{"Ada Lovelace", "ada@example.com", "Hello there", "Mar 14, 2025 3:04 PM UTC"} {
		if !strings.Contains(email.HTML, want) {
			t.Errorf("body should contain %q", want)
		}
	}
}

func TestAdminNotificationEscapesInput(t *testing.T) {
	email, err := AdminNotification("<b>X</b>", "ada@example.com", "<script>alert(1)</script>", time.Now())
	if err != nil {
		t.Fatalf("AdminNotification error = %v", err)
	}

	if strings.Contains(email.HTML, "<script>") {
		t.Error("submitter markup must not survive into the body")
	}
	if !strings.Contains(email.HTML, "&lt;b&gt;X&lt;/b&gt;") {
		t.Error("name should be HTML-escaped")
	}
	if !strings.Contains(email.HTML, "&lt;script&gt;") {
		t.Error("message should be HTML-escaped")
	}
}

func TestAdminNotificationPreservesLineBreaks(t *testing.T) {
	email, err := AdminNotification("Ada", "ada@example.com", "line one\nline two\r\nline three", time.Now())
	if err != nil {
		t.Fatalf("AdminNotification error = %v", err)
	}

	if !strings.Contains(email.HTML, "line one<br>line two<br>line three") {
		t.Error("message newlines should become <br> tags")
	}
}

func TestEscapeMultiline(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a\nb", "a<br>b"},
		{"a\r\nb", "a<br>b"},
		{"a\rb", "a<br>b"},
		{"<i>&</i>", "&lt;i&gt;&amp;&lt;/i&gt;"},
	}

	for _, tt := range tests {
		if got := string(escapeMultiline(tt.in)); got != tt.want {
			t.Errorf("escapeMultiline(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
