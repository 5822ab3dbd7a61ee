package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/household-services/frontend/internal/core/ports"
	"github.com/household-services/frontend/internal/core/session"
)

// HeaderTabID lets a client that keeps its own per-tab id override the cookie.
const HeaderTabID = "X-Tab-ID"

const sessionKey = "session"

// TabConfig controls the tab cookie and the session records it points to.
type TabConfig struct {
	CookieName string
	Secure     bool
	// TTL is the storage expiry for tokens that carry no exp claim.
	TTL time.Duration
}

// Tab identifies the browser tab, hydrates its session store and puts it on
// the echo context. A storage failure hydrates an anonymous session.
func Tab(storage ports.SessionStorage, cfg TabConfig, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tabID := tabIDFrom(c, cfg.CookieName)
			if tabID == "" {
				tabID = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     cfg.CookieName,
					Value:    tabID,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			store := session.NewStore(storage, tabID, cfg.TTL)
			if err := store.Hydrate(c.Request().Context()); err != nil {
				log.Warn().Err(err).Str("path", c.Request().URL.Path).Msg("session hydrate failed, continuing anonymous")
			}

			c.Set(sessionKey, store)
			return next(c)
		}
	}
}

func tabIDFrom(c echo.Context, cookieName string) string {
	if id := c.Request().Header.Get(HeaderTabID); validTabID(id) {
		return id
	}
	if ck, err := c.Cookie(cookieName); err == nil && validTabID(ck.Value) {
		return ck.Value
	}
	return ""
}

func validTabID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// Session returns the store installed by Tab, or nil when Tab did not run.
func Session(c echo.Context) *session.Store {
	s, _ := c.Get(sessionKey).(*session.Store)
	return s
}
