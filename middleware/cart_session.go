package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	CartCookieName = "cart_session"
	cartCookieAge  = 30 * 24 * time.Hour
)

// CartSessionMiddleware makes sure every request carries a cart session
// id, issuing a cookie on first visit.
func CartSessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sid string
		if c, err := r.Cookie(CartCookieName); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				sid = c.Value
			}
		}
		if sid == "" {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     CartCookieName,
				Value:    sid,
				Path:     "/",
				MaxAge:   int(cartCookieAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), CartContextKey, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CartSessionID returns the cart session of the request
func CartSessionID(ctx context.Context) string {
	sid, _ := ctx.Value(CartContextKey).(string)
	return sid
}
