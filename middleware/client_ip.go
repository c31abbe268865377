package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// getClientIP resolves the originating address of a webhook request.
// Telephony providers deliver through load balancers, so proxy headers take
// precedence over the socket address.
func getClientIP(c *gin.Context) string {
	// X-Forwarded-For lists every hop; the first entry is the caller.
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if xri := strings.TrimSpace(c.GetHeader("X-Real-IP")); xri != "" {
		return xri
	}
	// RemoteAddr carries a port when it comes straight off the socket.
	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return host
	}
	return c.Request.RemoteAddr
}
