package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mesafina-app/mesafina-backend/api/responses"
	pkgAuth "github.com/mesafina-app/mesafina-backend/pkg/auth"
	"github.com/mesafina-app/mesafina-backend/pkg/config"
	pkgerrors "github.com/mesafina-app/mesafina-backend/pkg/errors"
	"github.com/mesafina-app/mesafina-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// customer and, for owner tokens, the managed business.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithCustomerID(r.Context(), claims.CustomerID)
			fields := map[string]any{"customer_id": claims.CustomerID.String()}
			if claims.BusinessID != nil {
				ctx = WithBusinessID(ctx, *claims.BusinessID)
				fields["business_id"] = claims.BusinessID.String()
			}
			if logg != nil {
				ctx = logg.WithFields(ctx, fields)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireBusiness gates owner-only routes on a token that carries a managed
// business.
func RequireBusiness(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if BusinessIDFromContext(r.Context()) == uuid.Nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "business access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
