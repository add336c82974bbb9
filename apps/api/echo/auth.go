package echoapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hometuition/portal/core"
	"github.com/hometuition/portal/core/session"
	"github.com/hometuition/portal/core/user"
)

const (
	contextSessionKey = "session"
	sessionCookieName = "session_token"
	tokenAudience     = "tuition-portal"
)

var errInvalidToken = errors.New("invalid session token")

// Claims represents the authorization claims transmitted via a JWT. The JWT ID is the session ID.
type Claims struct {
	jwt.RegisteredClaims
	Role user.Role `json:"role,omitempty"`
}

type authenticator struct {
	key      []byte
	issuer   string
	sessions *session.Manager
}

func newAuthenticator(conf *core.Config, sessions *session.Manager) *authenticator {
	return &authenticator{
		key:      []byte(conf.SecretKey),
		issuer:   conf.AppName,
		sessions: sessions,
	}
}

// GenerateToken generates a signed JWT token string referencing sess.
func (a *authenticator) GenerateToken(sess session.Session) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Issuer:    a.issuer,
			Subject:   sess.Email,
			Audience:  jwt.ClaimStrings{tokenAudience},
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
		Role: sess.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(a.key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func (a *authenticator) parseToken(tokenStr string) (*Claims, error) {
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(
		tokenStr, claims,
		func(*jwt.Token) (interface{}, error) { return a.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithAudience(tokenAudience),
	)
	if err != nil {
		return nil, errInvalidToken
	}
	return claims, nil
}

func tokenFromRequest(ctx echo.Context) string {
	if auth := ctx.Request().Header.Get(echo.HeaderAuthorization); auth != "" {
		if scheme, token, ok := strings.Cut(auth, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := ctx.Cookie(sessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// sessionMiddleware loads the session referenced by the request token, if any.
// Requests without a valid live session go through as anonymous.
func sessionMiddleware(auth *authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			tokenStr := tokenFromRequest(ctx)
			if tokenStr == "" {
				return next(ctx)
			}
			claims, err := auth.parseToken(tokenStr)
			if err != nil {
				return next(ctx)
			}

			sess, err := auth.sessions.Get(ctx.Request().Context(), claims.ID)
			if err != nil {
				if errors.Cause(err) == session.ErrNotFound {
					return next(ctx)
				}
				return errors.Wrap(err, "loading session")
			}
			ctx.Set(contextSessionKey, sess)
			return next(ctx)
		}
	}
}

func getContextSession(ctx echo.Context) (session.Session, bool) {
	sess, ok := ctx.Get(contextSessionKey).(session.Session)
	return sess, ok
}

func setSessionCookie(ctx echo.Context, token string, expires time.Time) {
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
