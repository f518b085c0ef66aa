package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const ctxBountyKey contextKey = "parsed_bounty"

// parsedBounty is stored in context so the handler can read the bounty
// without re-parsing the body.
type parsedBounty struct {
	Bounty int `json:"bounty"`
}

// BountyFromCtx returns the bounty parsed by BountyCheck, or 0 if not set.
func BountyFromCtx(ctx context.Context) int {
	if b, ok := ctx.Value(ctxBountyKey).(*parsedBounty); ok {
		return b.Bounty
	}
	return 0
}

// BountyCheck rejects task posts with a non-positive bounty, or a bounty
// above maxPerTask when maxPerTask > 0, before the handler runs. Reads the
// body to extract "bounty", then replaces r.Body so downstream handlers can
// re-read it.
func BountyCheck(maxPerTask int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			acc := AccountFromCtx(r.Context())
			if acc == nil {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}

			bodyBytes, err := io.ReadAll(r.Body)
			r.Body.Close()
			if err != nil {
				http.Error(w, `{"error":"failed to read body"}`, http.StatusBadRequest)
				return
			}
			// Restore body for the handler.
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

			var peek parsedBounty
			if err := json.Unmarshal(bodyBytes, &peek); err != nil {
				http.Error(w, `{"error":"invalid JSON body"}`, http.StatusBadRequest)
				return
			}
			if peek.Bounty <= 0 {
				http.Error(w, `{"error":"bounty must be > 0"}`, http.StatusBadRequest)
				return
			}
			if maxPerTask > 0 && peek.Bounty > maxPerTask {
				http.Error(w, fmt.Sprintf(`{"error":"bounty %d exceeds per-task limit %d"}`, peek.Bounty, maxPerTask), http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), ctxBountyKey, &peek)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
