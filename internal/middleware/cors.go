package middleware

import (
	"github.com/gin-gonic/gin"
)

// CORS allows the manufacturing dashboard and statement viewer, served from
// other origins, to call the ledger API from the browser. Preflights
// short-circuit with 204. X-Request-ID is exposed so clients can quote it
// when reporting a failed operation.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
