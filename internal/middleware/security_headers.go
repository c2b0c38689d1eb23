package middleware

import "github.com/gin-gonic/gin"

const contentSecurityPolicy = "default-src 'self'; " +
	"style-src 'self'; " +
	"img-src 'self' data:; " +
	"frame-ancestors 'none'; " +
	"form-action 'self'"

// SecurityHeaders sets the headers every HTML response carries.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", contentSecurityPolicy)
		c.Header("Permissions-Policy", "camera=(), geolocation=(), microphone=(), payment=(), usb=()")

		c.Next()
	}
}
