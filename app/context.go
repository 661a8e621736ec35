package main

import (
	"context"
	"net/http"

	"github.com/svidalco/mdxblog/internal/tokenservice"
)

type contextKey string

const claimsContextKey = contextKey("claims")

func (app *application) createClaimsContext(r *http.Request, claims *tokenservice.Claims) *http.Request {
	ctx := context.WithValue(r.Context(), claimsContextKey, claims)
	return r.WithContext(ctx)
}

// getClaimsContext returns the verified claims of the request, or nil for an
// anonymous caller.
func (app *application) getClaimsContext(r *http.Request) *tokenservice.Claims {
	claims, ok := r.Context().Value(claimsContextKey).(*tokenservice.Claims)
	if !ok {
		return nil
	}
	return claims
}
