package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// ConfigCORS allows the configured origins, or everything when none are
// configured (development).
func ConfigCORS(allowedDomains string) gin.HandlerFunc {
	conf := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	if allowedDomains == "" {
		conf.AllowAllOrigins = true
	} else {
		domains := strings.Split(allowedDomains, ",")
		for i := range domains {
			domains[i] = strings.TrimSpace(domains[i])
		}
		conf.AllowOrigins = domains
		conf.AllowCredentials = true
	}

	return cors.New(conf)
}
