package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	defaultCORSMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	defaultCORSHeaders = []string{"Content-Type", RequestIDHeader, "Accept", "Origin"}
)

// CORS describes the cross-origin policy of the API. An origin of "*" allows
// every origin; an empty origin list allows none.
type CORS struct {
	Origins     []string
	Methods     []string
	Headers     []string
	Expose      []string
	Credentials bool
	MaxAge      time.Duration
}

// NewCORS builds a policy for origins, using the default methods and headers
// where none are given.
func NewCORS(origins, methods, headers []string) CORS {
	if len(methods) == 0 {
		methods = defaultCORSMethods
	}
	if len(headers) == 0 {
		headers = defaultCORSHeaders
	}
	return CORS{
		Origins: origins,
		Methods: methods,
		Headers: headers,
		Expose:  []string{RequestIDHeader},
		MaxAge:  12 * time.Hour,
	}
}

// allowOrigin returns the value for Access-Control-Allow-Origin, or "" when
// origin is not allowed.
func (p CORS) allowOrigin(origin string) string {
	if slices.Contains(p.Origins, "*") {
		return "*"
	}
	if origin != "" && slices.Contains(p.Origins, origin) {
		return origin
	}
	return ""
}

// Handler sets the CORS headers for allowed origins and ends every preflight
// request with 204.
func (p CORS) Handler() gin.HandlerFunc {
	methods := strings.Join(p.Methods, ", ")
	headers := strings.Join(p.Headers, ", ")
	expose := strings.Join(p.Expose, ", ")
	maxAge := strconv.Itoa(int(p.MaxAge.Seconds()))

	return func(c *gin.Context) {
		if allowed := p.allowOrigin(c.GetHeader("Origin")); allowed != "" {
			c.Header("Access-Control-Allow-Origin", allowed)
			c.Header("Access-Control-Allow-Methods", methods)
			c.Header("Access-Control-Allow-Headers", headers)
			if expose != "" {
				c.Header("Access-Control-Expose-Headers", expose)
			}
			if p.MaxAge > 0 {
				c.Header("Access-Control-Max-Age", maxAge)
			}
			if p.Credentials && allowed != "*" {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
