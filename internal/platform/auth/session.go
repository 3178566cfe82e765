package auth

import "context"

// Session exposes the authenticated user to domain services.
type Session struct{}

// CurrentActorID returns the id of the user making the request.
func (Session) CurrentActorID(ctx context.Context) (string, bool) {
	uid := UserIDFromContext(ctx)
	return uid, uid != ""
}
