package user

import (
	"context"
	"net/http"
	"time"

	"github.com/invoiceflow-app/invoiceflow/go/internal/auth"
	"github.com/invoiceflow-app/invoiceflow/go/internal/logger"
	"github.com/invoiceflow-app/invoiceflow/go/internal/models"
	gocache "github.com/patrickmn/go-cache"
)

type dbContextKey string

const (
	dbUserContextKey dbContextKey = "db_user"
)

func GetDBUserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(dbUserContextKey).(*models.User)
	return user, ok
}

// ContextWithUser attaches a synced local user to the request context.
func ContextWithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, dbUserContextKey, u)
}

// Middleware guarantees every authenticated request a current local user row
// before any handler runs. Synced users are cached by uid for a short TTL;
// the cache is skipped when the asserted email or display name no longer
// matches what was synced, so upstream identity edits land immediately.
func Middleware(userService Service, ttl time.Duration) func(http.Handler) http.Handler {
	synced := gocache.New(ttl, 2*ttl)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := auth.GetIdentityFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized: identity not found in context", http.StatusUnauthorized)
				return
			}

			if cached, found := synced.Get(identity.UID); found {
				if dbUser, ok := cached.(*models.User); ok && identityMatches(dbUser, identity) {
					next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), dbUser)))
					return
				}
			}

			dbUser, err := userService.Sync(r.Context(), identity)
			if err != nil {
				logger.Log.Error("failed to sync user", "uid", identity.UID, "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			synced.Set(identity.UID, dbUser, gocache.DefaultExpiration)

			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), dbUser)))
		})
	}
}

func identityMatches(u *models.User, identity *auth.Identity) bool {
	if identity.Email != "" && identity.Email != u.Email {
		return false
	}
	if identity.DisplayName != "" && identity.DisplayName != u.DisplayName {
		return false
	}
	return true
}
