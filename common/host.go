package common

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// CanonicalHostMiddleware redirects requests for www.<domain> to the bare
// site domain so sitemap, robots and pages all agree on one base URL.
// Hosts that are neither (localhost, test servers) pass through.
func CanonicalHostMiddleware(siteURL string) gin.HandlerFunc {
	u, err := url.Parse(siteURL)
	if err != nil || u.Host == "" {
		return func(c *gin.Context) { c.Next() }
	}
	canonical := u.Hostname()

	return func(c *gin.Context) {
		host := c.Request.Host
		if strings.Contains(host, ":") {
			host = strings.Split(host, ":")[0]
		}

		if host == "www."+canonical {
			target := u.Scheme + "://" + u.Host + c.Request.URL.RequestURI()
			c.Redirect(http.StatusMovedPermanently, target)
			c.Abort()
			return
		}

		c.Next()
	}
}
