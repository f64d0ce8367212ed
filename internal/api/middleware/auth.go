package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/avdeevsm/BMS-SlotService/internal/api/handlers"
)

type contextKey string

const tenantIDKey contextKey = "tenantID"

// HeaderTenantID заголовок идентификации тенанта
const HeaderTenantID = "X-Tenant-ID"

// Auth middleware извлекает ID тенанта из заголовка X-Tenant-ID
// и кладет его в контекст запроса
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(HeaderTenantID)
		if raw == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок "+HeaderTenantID)
			return
		}

		tenantID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || tenantID <= 0 {
			handlers.RespondUnauthorized(w, "некорректный заголовок "+HeaderTenantID)
			return
		}

		ctx := context.WithValue(r.Context(), tenantIDKey, tenantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetTenantID достает ID тенанта из контекста
func GetTenantID(ctx context.Context) (int64, bool) {
	tenantID, ok := ctx.Value(tenantIDKey).(int64)
	return tenantID, ok
}
