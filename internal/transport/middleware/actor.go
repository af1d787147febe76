package middleware

import (
	"net/http"
	"strings"

	"github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/pkg/logger"
)

const ActorHeader = "X-Actor"

// Actor records who performs the request. The value is informational only,
// it lands in document uploader fields and in logs.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := strings.TrimSpace(r.Header.Get(ActorHeader))
		if actor == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := internal.ContextWithActor(r.Context(), actor)
		ctx = logger.With(ctx, "actor", actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
