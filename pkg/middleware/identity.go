package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	IdentityCookie = "FARM_UID"
	identityKey    = "userId"
)

// Identity reads the login cookie and stores the user id on the context.
// Requests without it pass through anonymously; roles are only tags, so
// nothing here rejects a request.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ck, err := c.Cookie(IdentityCookie); err == nil {
				if id, err := strconv.ParseUint(ck.Value, 10, 64); err == nil && id > 0 {
					c.Set(identityKey, uint(id))
				}
			}
			return next(c)
		}
	}
}

// SetIdentity issues the login cookie.
func SetIdentity(c echo.Context, userID uint) {
	c.SetCookie(&http.Cookie{
		Name:     IdentityCookie,
		Value:    strconv.FormatUint(uint64(userID), 10),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(identityKey, userID)
}

// UserID returns the id set by Identity, if any.
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(identityKey).(uint)
	return id, ok
}
