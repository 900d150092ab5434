package api

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	"github.com/tendant/scheduled-content/pkg/scheduledcontent"
)

// NewTokenAuth builds the JWT verifier used by the identity middleware.
func NewTokenAuth(secret string) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(secret), nil)
}

// TokenIdentityResolver implements scheduledcontent.IdentityResolver from
// the verified JWT in the request context. The subject claim carries the
// owner id.
type TokenIdentityResolver struct{}

func (TokenIdentityResolver) Resolve(ctx context.Context) (uuid.UUID, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return uuid.Nil, scheduledcontent.ErrUnauthenticated
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, scheduledcontent.ErrUnauthenticated
	}

	ownerID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, scheduledcontent.ErrUnauthenticated
	}

	return ownerID, nil
}

// Mount attaches the item routes behind the identity middleware. The
// TokenIdentityResolver reads the claims the Verifier placed in the request
// context.
func Mount(r chi.Router, tokenAuth *jwtauth.JWTAuth, handler *ItemHandler) {
	r.Group(func(gr chi.Router) {
		gr.Use(jwtauth.Verifier(tokenAuth))
		gr.Use(jwtauth.Authenticator)
		gr.Mount("/scheduled-items", handler.Routes())
	})
}
