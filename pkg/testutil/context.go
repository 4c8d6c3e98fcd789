package testutil

import (
	"net/http"

	id "protocolo/pkg/domain"
	"protocolo/pkg/requestcontext"
)

// WithActor attaches an authenticated actor to the request context,
// mirroring what the auth middleware does after a successful token check.
func WithActor(req *http.Request, actor id.Actor) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), actor))
}

// Superuser returns an actor with unrestricted access.
func Superuser(username string) id.Actor {
	return id.Actor{ID: id.NewUserID(), Username: username, Superuser: true}
}

// ActorWithLevel returns a regular actor at the given access level.
func ActorWithLevel(username string, level id.AccessLevel) id.Actor {
	return id.Actor{ID: id.NewUserID(), Username: username, Level: level}
}
