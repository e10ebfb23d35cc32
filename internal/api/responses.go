package api

import (
	"bytes"
	"html/template"
	"net/http"
)

// redirectDelayMS is how long success pages wait before redirecting back to
// the hosting site
const redirectDelayMS = 2000

// corsHeaders sets the permissive CORS headers every form response carries
func corsHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// writeHTML writes a rendered page with the fixed response headers
func writeHTML(w http.ResponseWriter, status int, body string) {
	corsHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

var successPageTmpl = template.Must(template.New("success").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <script>
    {{if .NotifyParent}}if (window.parent !== window) {
      window.parent.postMessage({ type: 'form-success' }, '*');
    }
    {{end}}setTimeout(function() {
      window.location.href = {{.RedirectURL}};
    }, {{.RedirectDelayMS}});
  </script>
</head>
<body>
  <p>{{.Message}}</p>
</body>
</html>`))

var errorPageTmpl = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Error</title></head>
<body><p>{{.Message}} <a href="{{.BackURL}}">Go back</a></p></body>
</html>`))

var verboseErrorPageTmpl = template.Must(template.New("verbose_error").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Error</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif; padding: 40px; max-width: 600px; margin: 0 auto; background: #ffffff; color: #333333; line-height: 1.6; }
    .error { background: #fff3cd; padding: 20px; border-radius: 8px; border: 2px solid #ffc107; color: #856404; margin: 20px 0; }
    .error strong { color: #721c24; font-weight: 600; }
    code { background: #f8f9fa; padding: 4px 8px; border-radius: 4px; font-size: 0.9em; color: #d63384; font-family: 'Monaco', 'Menlo', 'Courier New', monospace; border: 1px solid #dee2e6; display: block; margin-top: 10px; white-space: pre-wrap; word-break: break-all; }
    h1 { color: #212529; margin-bottom: 20px; }
    a { color: #0d6efd; text-decoration: none; }
    a:hover { text-decoration: underline; }
  </style>
</head>
<body>
  <h1>Form Submission Error</h1>
  <div class="error">
    <p><strong>Error:</strong> {{.Message}}</p>
    <p><strong>Details:</strong> <code>{{.Details}}</code></p>
  </div>
  <p><a href="{{.BackURL}}">← Go back</a></p>
</body>
</html>`))

type successPageData struct {
	Title           string
	Message         string
	RedirectURL     string
	RedirectDelayMS int
	NotifyParent    bool
}

type errorPageData struct {
	Message string
	Details string
	BackURL string
}

// successPage renders a page that signals success to the hosting frame and
// redirects after a fixed delay
func successPage(title, message, redirectURL string) string {
	return renderPage(successPageTmpl, successPageData{
		Title:           title,
		Message:         message,
		RedirectURL:     redirectURL,
		RedirectDelayMS: redirectDelayMS,
		NotifyParent:    true,
	})
}

// redirectPage renders a redirect-only page, used for already-registered
// signups
func redirectPage(title, message, redirectURL string) string {
	return renderPage(successPageTmpl, successPageData{
		Title:           title,
		Message:         message,
		RedirectURL:     redirectURL,
		RedirectDelayMS: redirectDelayMS,
	})
}

// errorPage renders a minimal failure page with a back link
func errorPage(message, backURL string) string {
	return renderPage(errorPageTmpl, errorPageData{Message: message, BackURL: backURL})
}

// verboseErrorPage renders a failure page that exposes the upstream error
// payload. Only used when api.verbose_errors is on.
func verboseErrorPage(message, details, backURL string) string {
	return renderPage(verboseErrorPageTmpl, errorPageData{Message: message, Details: details, BackURL: backURL})
}

func renderPage(t *template.Template, data any) string {
	var buf bytes.Buffer
	// Page templates only fail on bad data types, which would be a
	// programming error
	if err := t.Execute(&buf, data); err != nil {
		return "<!DOCTYPE html><html><body><p>Internal error.</p></body></html>"
	}
	return buf.String()
}
