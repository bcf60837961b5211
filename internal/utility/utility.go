// Package utility holds small helpers shared by the HTTP handlers.
package utility

import (
	"crypto/rand"
	"strings"

	"github.com/labstack/echo/v4"
)

// RealIP returns the client address, preferring proxy headers.
func RealIP(c echo.Context) string {
	// X-Forwarded-For can be a list: "client, proxy1, proxy2"
	if xff := c.Request().Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xRealIP := strings.TrimSpace(c.Request().Header.Get("X-Real-IP")); xRealIP != "" {
		return xRealIP
	}

	return c.RealIP()
}

// SecureKey returns length random bytes.
func SecureKey(length int) ([]byte, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
