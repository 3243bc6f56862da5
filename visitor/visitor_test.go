package visitor

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"barklounge/resources/resourcestest"
	"barklounge/store"
)

func setupTestRouter(reg *store.Registry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessions.Sessions("test-session", cookie.NewStore([]byte("secret"))))
	router.Use(Middleware(reg, zap.NewNop()))
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "%s %p", ID(c), Store(c))
	})
	return router
}

func TestSameCookieSameStore(t *testing.T) {
	fake := &resourcestest.Fake{}
	reg := store.NewRegistry(time.Hour, func() *store.Store {
		return store.New(store.Options{Reader: fake, Sender: fake})
	})
	router := setupTestRouter(reg)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	first := w.Body.String()
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, first, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEqual(t, first, w.Body.String())
	assert.Equal(t, 2, reg.Len())
}
