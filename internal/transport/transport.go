// Package transport implements the outbound request pipeline: ordered,
// composable http.RoundTripper stages applied to every call the client
// makes to the storefront API.
package transport

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RoundTripperFunc adapts a function to the http.RoundTripper interface.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Stage wraps a RoundTripper with additional behavior.
type Stage func(http.RoundTripper) http.RoundTripper

// Chain applies stages to base so that the first stage listed is the
// first to see the outgoing request. A nil base falls back to
// http.DefaultTransport.
func Chain(base http.RoundTripper, stages ...Stage) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	rt := base
	for i := len(stages) - 1; i >= 0; i-- {
		rt = stages[i](rt)
	}
	return rt
}

// TokenSource yields the current bearer token, or the empty string when
// no session is active.
type TokenSource interface {
	Token() string
}

// TokenSourceFunc adapts a function to the TokenSource interface.
type TokenSourceFunc func() string

// Token implements TokenSource.
func (f TokenSourceFunc) Token() string { return f() }

// paths that create the session itself
var noAuthPaths = map[string]bool{
	"/account": true,
	"/token":   true,
}

// BearerAuth returns the token-attachment stage. When a token is
// available it is injected as an Authorization: Bearer header, and every
// request is tagged with an X-Request-Id for correlation. The account and
// token endpoints never carry a token, even a stale one, to keep session
// creation out of the loop.
func BearerAuth(tokens TokenSource) Stage {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			// Requests must not be modified in place per the
			// RoundTripper contract.
			clone := req.Clone(req.Context())
			clone.Header.Set("X-Request-Id", uuid.NewString())

			if token := tokens.Token(); token != "" && !noAuthPaths[req.URL.Path] {
				clone.Header.Set("Authorization", "Bearer "+token)
			}
			return next.RoundTrip(clone)
		})
	}
}

// AuthWatch returns the error-classification stage. A 401 response
// invokes onUnauthorized (session teardown plus redirect to the login
// entry point) and is then handed back to the caller unchanged. A 403
// passes through without touching session state. Nothing is ever
// retried here.
func AuthWatch(onUnauthorized func(), log *zap.Logger) Stage {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(req)
			if err != nil || resp == nil {
				return resp, err
			}

			switch resp.StatusCode {
			case http.StatusUnauthorized:
				log.Warn("unauthorized response, dropping session",
					zap.String("path", req.URL.Path))
				if onUnauthorized != nil {
					onUnauthorized()
				}
			case http.StatusForbidden:
				log.Warn("forbidden response",
					zap.String("path", req.URL.Path))
			}

			return resp, nil
		})
	}
}
