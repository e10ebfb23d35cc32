// Package mailtmpl builds the HTML bodies for the three transactional email
// variants: premium welcome, standard welcome, and admin notification.
package mailtmpl

import (
	"bytes"
	"fmt"
	"html"
	htmlTemplate "html/template"
	"strings"
	"time"
)

// Email is a rendered subject and HTML body
type Email struct {
	Subject string
	HTML    string
}

const welcomeStyle = `body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
.header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
.content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
.coupon-box { background: white; border: 3px dashed #667eea; padding: 20px; margin: 20px 0; text-align: center; border-radius: 8px; }
.coupon-code { font-size: 32px; font-weight: bold; color: #667eea; letter-spacing: 3px; margin: 10px 0; }
.button { display: inline-block; background: #667eea; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; margin: 20px 0; font-weight: bold; }
.footer { margin-top: 30px; padding-top: 20px; border-top: 1px solid #ddd; font-size: 12px; color: #666; }`

var premiumWelcomeTmpl = htmlTemplate.Must(htmlTemplate.New("premium_welcome").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>` + welcomeStyle + `</style>
</head>
<body>
  <div class="header">
    <h1>🎉 Congratulations!</h1>
    <p>You're one of the first {{.PremiumLimit}}!</p>
  </div>
  <div class="content">
    <h2>Welcome to Snooze Lane!</h2>
    <p>Thank you for joining our waitlist! We're thrilled to have you on board.</p>

    <p><strong>You're signup #{{.SignupNumber}} of {{.PremiumLimit}}</strong>, which means you've secured lifetime premium access to Snooze Lane!</p>

    <div class="coupon-box">
      <p style="margin: 0; font-size: 14px; color: #666;">Your Premium Access Code:</p>
      <div class="coupon-code">{{.CouponCode}}</div>
      <p style="margin: 10px 0 0 0; font-size: 14px; color: #666;">Save this code! You'll use it when the app launches.</p>
    </div>

    <p>When Snooze Lane launches, simply enter this code in the app to unlock all premium features <strong>forever</strong> - no subscription required!</p>

    <p>We'll notify you as soon as the app is available for download. In the meantime, follow us for updates!</p>

    <div style="text-align: center;">
      <a href="{{.SiteURL}}" class="button">Visit Our Website</a>
    </div>

    <div class="footer">
      <p>Questions? Reply to this email or visit <a href="{{.SiteURL}}/contact-us.html">our contact page</a>.</p>
      <p>© {{.Year}} Snooze Lane. All rights reserved.</p>
    </div>
  </div>
</body>
</html>`))

var standardWelcomeTmpl = htmlTemplate.Must(htmlTemplate.New("standard_welcome").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>` + welcomeStyle + `</style>
</head>
<body>
  <div class="header">
    <h1>Thank You!</h1>
    <p>You're on the Snooze Lane waitlist</p>
  </div>
  <div class="content">
    <h2>Welcome to Snooze Lane!</h2>
    <p>Thank you for joining our waitlist! We're excited to have you on board.</p>

    <p>While the first {{.PremiumLimit}} spots for lifetime premium access have been claimed, we're still thrilled to have you as part of the Snooze Lane community!</p>

    <p>We'll notify you as soon as the app is available for download. Stay tuned for updates!</p>

    <div style="text-align: center;">
      <a href="{{.SiteURL}}" class="button">Visit Our Website</a>
    </div>

    <div class="footer">
      <p>Questions? Reply to this email or visit <a href="{{.SiteURL}}/contact-us.html">our contact page</a>.</p>
      <p>© {{.Year}} Snooze Lane. All rights reserved.</p>
    </div>
  </div>
</body>
</html>`))

var adminNotificationTmpl = htmlTemplate.Must(htmlTemplate.New("admin_notification").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #667eea; color: white; padding: 20px; border-radius: 10px 10px 0 0; }
    .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
    .field { margin: 15px 0; }
    .label { font-weight: bold; color: #667eea; }
    .value { margin-top: 5px; padding: 10px; background: white; border-radius: 5px; }
  </style>
</head>
<body>
  <div class="header">
    <h2>New Contact Form Submission</h2>
  </div>
  <div class="content">
    <div class="field">
      <div class="label">Name:</div>
      <div class="value">{{.Name}}</div>
    </div>
    <div class="field">
      <div class="label">Email:</div>
      <div class="value">{{.Email}}</div>
    </div>
    <div class="field">
      <div class="label">Message:</div>
      <div class="value">{{.Message}}</div>
    </div>
    <div class="field">
      <div class="label">Submitted:</div>
      <div class="value">{{.Submitted}}</div>
    </div>
  </div>
</body>
</html>`))

type welcomeData struct {
	SignupNumber int
	PremiumLimit int
	CouponCode   string
	SiteURL      string
	Year         int
}

type adminData struct {
	Name      string
	Email     string
	Message   htmlTemplate.HTML
	Submitted string
}

// PremiumWelcome renders the welcome email for a premium-eligible signup.
// All interpolated values are system-derived.
func PremiumWelcome(signupNumber, premiumLimit int, couponCode, siteURL string) (*Email, error) {
	body, err := render(premiumWelcomeTmpl, welcomeData{
		SignupNumber: signupNumber,
		PremiumLimit: premiumLimit,
		CouponCode:   couponCode,
		SiteURL:      siteURL,
		Year:         time.Now().Year(),
	})
	if err != nil {
		return nil, err
	}
	return &Email{
		Subject: fmt.Sprintf("🎉 Welcome to Snooze Lane! You're #%d of %d", signupNumber, premiumLimit),
		HTML:    body,
	}, nil
}

// StandardWelcome renders the welcome email for a signup past the premium
// limit.
func StandardWelcome(premiumLimit int, siteURL string) (*Email, error) {
	body, err := render(standardWelcomeTmpl, welcomeData{
		PremiumLimit: premiumLimit,
		SiteURL:      siteURL,
		Year:         time.Now().Year(),
	})
	if err != nil {
		return nil, err
	}
	return &Email{
		Subject: "Thank You for Joining Snooze Lane!",
		HTML:    body,
	}, nil
}

// AdminNotification renders the notification sent to the site admin for a
// contact inquiry. Name, email, and message are submitter-supplied and are
// HTML-escaped; newlines in the message become <br> tags.
func AdminNotification(name, email, message string, submittedAt time.Time) (*Email, error) {
	body, err := render(adminNotificationTmpl, adminData{
		Name:      name,
		Email:     email,
		Message:   escapeMultiline(message),
		Submitted: submittedAt.Format("Jan 2, 2006 3:04 PM MST"),
	})
	if err != nil {
		return nil, err
	}
	return &Email{
		Subject: "New Contact Form Submission from " + name,
		HTML:    body,
	}, nil
}

// escapeMultiline HTML-escapes a free-text value and converts newlines to
// <br> tags. The result is safe to interpolate as-is.
func escapeMultiline(s string) htmlTemplate.HTML {
	escaped := html.EscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	escaped = strings.ReplaceAll(escaped, "\r", "\n")
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return htmlTemplate.HTML(escaped)
}

func render(t *htmlTemplate.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
