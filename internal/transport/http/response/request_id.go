package response

import (
	"net/http"

	appCtx "github.com/baechuer/account-service/internal/pkg/context"
)

// RequestIDFromContext returns the id set by middleware.RequestID, or "".
func RequestIDFromContext(r *http.Request) string {
	return appCtx.GetRequestID(r.Context())
}
