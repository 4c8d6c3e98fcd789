package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	id "protocolo/pkg/domain"
	dErrors "protocolo/pkg/domain-errors"
	"protocolo/pkg/requestcontext"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (v stubValidator) ValidateToken(string) (*JWTClaims, error) { return v.claims, v.err }

type stubRevocations struct {
	revoked bool
	err     error
}

func (r stubRevocations) IsTokenRevoked(context.Context, string) (bool, error) {
	return r.revoked, r.err
}

type stubActors struct {
	actor id.Actor
	err   error
}

func (a stubActors) LoadActor(context.Context, id.UserID) (id.Actor, error) { return a.actor, a.err }

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	userID := id.NewUserID()
	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	claims := &JWTClaims{UserID: userID, JTI: "jti-1", ExpiresAt: expires}
	actor := id.Actor{ID: userID, Username: "ana", Level: id.LevelGeneral}

	run := func(header string, v JWTValidator, rc TokenRevocationChecker, al ActorLoader) (*httptest.ResponseRecorder, context.Context) {
		var seen context.Context
		h := RequireAuth(v, rc, al, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = r.Context()
			w.WriteHeader(http.StatusNoContent)
		}))
		req := httptest.NewRequest(http.MethodGet, "/processes", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr, seen
	}

	t.Run("valid token sets actor and token id", func(t *testing.T) {
		rr, ctx := run("Bearer good", stubValidator{claims: claims}, stubRevocations{}, stubActors{actor: actor})
		assert.Equal(t, http.StatusNoContent, rr.Code)
		got, ok := requestcontext.Actor(ctx)
		assert.True(t, ok)
		assert.Equal(t, actor, got)
		jti, exp := requestcontext.TokenID(ctx)
		assert.Equal(t, "jti-1", jti)
		assert.Equal(t, expires, exp)
	})

	t.Run("missing header", func(t *testing.T) {
		rr, _ := run("", stubValidator{claims: claims}, stubRevocations{}, stubActors{actor: actor})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Missing or invalid Authorization header")
	})

	t.Run("invalid token", func(t *testing.T) {
		rr, _ := run("Bearer bad", stubValidator{err: errors.New("bad")}, stubRevocations{}, stubActors{actor: actor})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		rr, _ := run("Bearer good", stubValidator{claims: claims}, stubRevocations{revoked: true}, stubActors{actor: actor})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Token has been revoked")
	})

	t.Run("revocation check failure", func(t *testing.T) {
		rr, _ := run("Bearer good", stubValidator{claims: claims}, stubRevocations{err: errors.New("redis down")}, stubActors{actor: actor})
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("deleted user", func(t *testing.T) {
		rr, _ := run("Bearer good", stubValidator{claims: claims}, stubRevocations{},
			stubActors{err: dErrors.New(dErrors.CodeUnauthorized, "user no longer exists")})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
