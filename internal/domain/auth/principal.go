package auth

import "context"

// Principal is the authenticated caller as carried by the access token.
type Principal struct {
	UserID      int64
	Username    string
	IsStaff     bool
	IsSuperuser bool
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// CacheIdentity is the per-user component of response cache keys.
func CacheIdentity(ctx context.Context) string {
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.UserID == 0 {
		return "anon"
	}
	return formatID(p.UserID)
}
