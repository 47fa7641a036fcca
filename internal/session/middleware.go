package session

import (
	"context"
	"log/slog"
	"net/http"
)

// CookieName is the cookie the session token travels in.
const CookieName = "genfolio_session"

type contextKey string

const draftKeyCtx contextKey = "draftKey"

// Middleware makes sure every request has a draft key. A missing, expired
// or forged cookie is replaced by a freshly issued one; the request is
// never rejected.
func Middleware(tokens *TokenService, secure bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, err := keyFromCookie(r, tokens)
			if err != nil {
				var token string
				key, token, err = tokens.Issue()
				if err != nil {
					logger.Error("issuing session", slog.String("error", err.Error()))
					http.Error(w, `{"error":"internal_error","message":"an unexpected error occurred"}`, http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(tokens.TTL().Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(WithKey(r.Context(), key)))
		})
	}
}

// WithKey returns ctx carrying the draft key.
func WithKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, draftKeyCtx, key)
}

// KeyFromContext returns the draft key set by Middleware.
func KeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(draftKeyCtx).(string)
	return key, ok && key != ""
}

func keyFromCookie(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", err
	}
	return tokens.Validate(cookie.Value)
}
