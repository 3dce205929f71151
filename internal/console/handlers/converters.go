package handlers

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gartstein/guardroster/internal/console/apiclient"
	"github.com/gartstein/guardroster/internal/console/datatable"
	e "github.com/gartstein/guardroster/internal/console/errors"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

func parseTemplates() (*template.Template, error) {
	return template.New("console").Funcs(template.FuncMap{
		"add":        func(a, b int) int { return a + b },
		"badgeClass": badgeClass,
		"sortMark":   sortMark,
	}).ParseFS(templateFS, "templates/*.tmpl")
}

// badgeClass maps a status or verification value to its badge style.
func badgeClass(value string) string {
	switch value {
	case "Approved", "Active", "On Hand", "true":
		return "badge-success"
	case "Pending", "Inactive", "false":
		return "badge-warning"
	case "Declined", "Suspended", "Terminated", "Lost", "Stolen":
		return "badge-danger"
	}
	return "badge-neutral"
}

func sortMark(s datatable.Sort, key string) string {
	if s.Key != key {
		return ""
	}
	if s.Direction == datatable.Desc {
		return " ▼"
	}
	return " ▲"
}

// statusFor maps an error to the HTTP status returned to JSON clients.
func statusFor(err error) int {
	var apiErr *apiclient.APIError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, e.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.As(err, &apiErr):
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status
		}
		return http.StatusBadGateway
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, e.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, e.ErrDialogClosed):
		return http.StatusConflict
	case errors.Is(err, e.ErrUnauthenticated):
		return http.StatusUnauthorized
	}
	return http.StatusBadGateway
}

// surfaced reports whether the page itself shows err after a redirect, as a
// banner, a load error or a form message. Other errors are answered directly.
func surfaced(err error) bool {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return true
	}
	return !errors.Is(err, e.ErrNotFound) &&
		!errors.Is(err, e.ErrInvalidInput) &&
		!errors.Is(err, e.ErrDialogClosed)
}
