package echoapi

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core"
)

const (
	sessionCookieName = "studyhub_session"
	contextUserIDKey  = "userID"
)

var errInvalidSession = errors.New("invalid session")

// sessionManager keeps the session in a signed cookie that carries the user ID only.
type sessionManager struct {
	key    []byte
	ttl    time.Duration
	issuer string
	secure bool
}

func newSessionManager(conf *core.Config) sessionManager {
	return sessionManager{
		key:    []byte(conf.SecretKey),
		ttl:    conf.Server.SessionTTL,
		issuer: conf.AppName,
		secure: conf.Env == "PROD",
	}
}

func (sm sessionManager) token(userID string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    sm.issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sm.ttl)),
	}
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sm.key)
	if err != nil {
		return "", errors.Wrap(err, "signing session token")
	}
	return ss, nil
}

// userID returns the user ID of a valid session token.
func (sm sessionManager) userID(tokenStr string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(
		tokenStr, &claims,
		func(*jwt.Token) (interface{}, error) { return sm.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sm.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", errors.Wrap(errInvalidSession, err.Error())
	}
	if claims.Subject == "" {
		return "", errInvalidSession
	}
	return claims.Subject, nil
}

func (sm sessionManager) issue(ctx echo.Context, userID string) error {
	now := time.Now()
	ss, err := sm.token(userID, now)
	if err != nil {
		return err
	}
	ctx.SetCookie(sm.cookie(ss, now.Add(sm.ttl)))
	return nil
}

func (sm sessionManager) clear(ctx echo.Context) {
	c := sm.cookie("", time.Unix(0, 0))
	c.MaxAge = -1
	ctx.SetCookie(c)
}

func (sm sessionManager) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// requireSession redirects to the login page unless the request carries a valid session.
func (sm sessionManager) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		c, err := ctx.Cookie(sessionCookieName)
		if err != nil {
			return ctx.Redirect(http.StatusFound, "/login")
		}
		uid, err := sm.userID(c.Value)
		if err != nil {
			sm.clear(ctx)
			return ctx.Redirect(http.StatusFound, "/login")
		}
		ctx.Set(contextUserIDKey, uid)
		return next(ctx)
	}
}

func contextUserID(ctx echo.Context) string {
	uid, _ := ctx.Get(contextUserIDKey).(string)
	return uid
}
