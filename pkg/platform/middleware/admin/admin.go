package admin

import (
	"log/slog"
	"net/http"

	"protocolo/pkg/requestcontext"
)

// RequireSuperuser rejects requests whose actor is not a superuser. It must
// run after auth.RequireAuth.
func RequireSuperuser(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			actor, ok := requestcontext.Actor(ctx)
			if !ok || !actor.Superuser {
				logger.WarnContext(ctx, "superuser required",
					"actor", actor.Username,
					"request_id", requestcontext.RequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden","error_description":"superuser required"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
