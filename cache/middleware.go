package cache

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Middleware serves successful GET responses for the wrapped route from
// the cache while they are younger than maxAge. Entries are keyed by path
// and raw query; the Content-Type is stored alongside the body.
func (f *Files) Middleware(namespace string, maxAge time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.URL.Path + "?" + c.Request.URL.RawQuery

		if cached, found := f.Read(namespace, key, maxAge); found {
			if contentType, body, ok := splitEntry(cached); ok {
				c.Header("X-Cache", "HIT")
				c.Data(http.StatusOK, contentType, body)
				c.Abort()
				return
			}
		}

		c.Header("X-Cache", "MISS")

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           bytes.NewBuffer(nil),
		}
		c.Writer = writer

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			contentType := c.Writer.Header().Get("Content-Type")
			f.Write(namespace, key, joinEntry(contentType, writer.body.Bytes()))
		}
	}
}

func joinEntry(contentType string, body []byte) []byte {
	out := make([]byte, 0, len(contentType)+1+len(body))
	out = append(out, contentType...)
	out = append(out, '\n')
	return append(out, body...)
}

func splitEntry(entry []byte) (string, []byte, bool) {
	i := bytes.IndexByte(entry, '\n')
	if i < 0 {
		return "", nil, false
	}
	contentType := strings.TrimSpace(string(entry[:i]))
	if contentType == "" {
		return "", nil, false
	}
	return contentType, entry[i+1:], true
}
