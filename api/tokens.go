package api

import "context"

// TokenStore is where the bearer token lives between requests.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	ClearToken(ctx context.Context) error
}

type tokenStoreKey struct{}

// WithTokenStore scopes a token store to one request. It takes precedence
// over the store the client was built with.
func WithTokenStore(ctx context.Context, store TokenStore) context.Context {
	return context.WithValue(ctx, tokenStoreKey{}, store)
}

func tokenStoreFrom(ctx context.Context) TokenStore {
	store, _ := ctx.Value(tokenStoreKey{}).(TokenStore)
	return store
}

// RequestScoped is a token store bound to one request. Detach returns the
// part of it that stays valid after the request ends, or nil.
type RequestScoped interface {
	Detach() TokenStore
}

// Detach returns a context for work that outlives the request: it is
// never canceled, and a request-scoped token store is replaced by its
// detached part.
func Detach(ctx context.Context) context.Context {
	ctx = context.WithoutCancel(ctx)
	scoped, ok := tokenStoreFrom(ctx).(RequestScoped)
	if !ok {
		return ctx
	}
	return context.WithValue(ctx, tokenStoreKey{}, scoped.Detach())
}
