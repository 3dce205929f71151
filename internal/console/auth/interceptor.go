package auth

import (
	"github.com/go-resty/resty/v2"
)

// TokenSource yields the backend bearer token, or "" when there is none.
type TokenSource interface {
	Token() string
}

// Interceptor attaches the backend bearer token to every outgoing request.
type Interceptor struct {
	source TokenSource
}

func NewInterceptor(source TokenSource) *Interceptor {
	return &Interceptor{source: source}
}

// Request returns the resty hook. Requests go out unauthenticated when no
// token is stored; the backend may still accept its session cookie.
func (i *Interceptor) Request() resty.RequestMiddleware {
	return func(_ *resty.Client, r *resty.Request) error {
		if tok := i.source.Token(); tok != "" {
			r.SetAuthToken(tok)
		}
		return nil
	}
}
