package console

import "context"

var profileCtxKey = &contextKey{"profile"}

type contextKey struct {
	name string
}

// WithProfile sets the UserProfile in the given context
func WithProfile(ctx context.Context, profile *UserProfile) context.Context {
	return context.WithValue(ctx, profileCtxKey, profile)
}

// ProfileFromContext finds the profile from the context.
func ProfileFromContext(ctx context.Context) (*UserProfile, bool) {
	raw, ok := ctx.Value(profileCtxKey).(*UserProfile)
	return raw, ok
}

// CanManageSector checks whether the identity in the context may act on the
// given sector. Admins may act anywhere; managers only inside their own
// sector.
func CanManageSector(ctx context.Context, sectorID string) bool {
	profile, ok := ProfileFromContext(ctx)
	if !ok || profile == nil {
		return false
	}

	if profile.IsAdmin() {
		return true
	}

	if profile.IsManager() && profile.SectorID != nil {
		return profile.SectorID.String() == sectorID
	}

	return false
}
