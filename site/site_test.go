package site

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"barklounge/api"
	"barklounge/cache"
	"barklounge/common"
	"barklounge/contact"
	"barklounge/hydration"
	"barklounge/loader"
	"barklounge/models"
	"barklounge/resources/resourcestest"
	"barklounge/store"
	"barklounge/views"
	"barklounge/visitor"
)

func homeFake() *resourcestest.Fake {
	created := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	return &resourcestest.Fake{
		Settings:  &models.AppSettings{ID: "s", EmailAddress: "info@barklounge.test", PhoneNumber: "+90 212 000 00 00"},
		AboutInfo: &models.About{ID: "a", AboutDescription: "Küçük bir aile işletmesiyiz.", PetHotelCustomers: 600},
		AboutBody: &models.AboutContent{ID: "ac", Description: "Sevgiyle bakıyoruz.", ImageURL: "/img/about.jpg"},
		Seo:       &models.SeoSettings{ID: "seo", Title: "Bark & Lounge | Ana Sayfa", Description: "Pet otel"},
		Section:   &models.ServicesSection{ID: "ss", Heading: "Hizmetlerimiz"},
		Slides:    []models.SliderItem{{ID: "sl1", Title: "Dostunuz emin ellerde", ImageURL: "/img/1.jpg", IsActive: true}},
		Services:  []models.ServiceItem{{ID: "sv1", Title: "Pet Otel", ServiceType: models.ServiceHotel, IsActive: true}},
		Gallery:   []models.GalleryItem{{ID: "g1", ImageURL: "/img/g1.jpg", Title: "Bahçe", IsActive: true}},
		ReviewList: []models.CustomerReview{
			{ID: "r1", Name: "Mehmet K.", Rating: 5, Text: "Harika bir ekip"},
		},
		Stats: &models.ReviewStats{ID: "rs", AverageRating: 4.9, TotalReviews: 87},
		Posts: []models.BlogPost{
			{ID: "p1", Title: "Kış Bakımı", Slug: "kis-bakimi", IsPublished: true, CreatedAt: created},
			{ID: "p2", Title: "Otel Rehberi", Slug: "otel-rehberi", IsPublished: true, CreatedAt: created,
				UpdatedAt: created.Add(48 * time.Hour)},
		},
		Featured: []models.BlogPost{{ID: "p1", Title: "Kış Bakımı", Slug: "kis-bakimi", IsPublished: true}},
	}
}

type env struct {
	router *gin.Engine
	module *SiteModule
	reg    *store.Registry
	files  *cache.Files
}

func setup(t *testing.T, fake *resourcestest.Fake) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	reg := store.NewRegistry(time.Hour, func() *store.Store {
		return store.New(store.Options{Reader: fake, Sender: fake})
	})
	files := cache.New(t.TempDir())
	module := NewSiteModule(Options{
		Loader:  loader.New(loader.Options{Reader: fake}),
		Bridge:  hydration.NewBridge(nil),
		Reader:  fake,
		Cache:   files,
		SiteURL: "https://barklounge.test/",
		Origins: []string{"https://admin.barklounge.test"},
	})
	module.wait = time.Second

	router := gin.New()
	router.SetHTMLTemplate(views.MustParse("https://barklounge.test"))
	router.Use(sessions.Sessions("test-session", cookie.NewStore([]byte("secret"))))
	router.Use(visitor.Middleware(reg, nil))
	module.RegisterRoutes(router)
	contact.NewContactModule(0, nil).RegisterRoutes(router)
	return &env{router: router, module: module, reg: reg, files: files}
}

type client struct {
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func (cl *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range cl.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	cl.router.ServeHTTP(w, req)
	if cl.cookies == nil {
		cl.cookies = map[string]*http.Cookie{}
	}
	for _, ck := range w.Result().Cookies() {
		cl.cookies[ck.Name] = ck
	}
	return w
}

func (cl *client) get(path string) *httptest.ResponseRecorder {
	return cl.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func TestHomeRendersBundle(t *testing.T) {
	e := setup(t, homeFake())
	cl := &client{router: e.router}

	w := cl.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Dostunuz emin ellerde")
	assert.Contains(t, body, "Hizmetlerimiz")
	assert.Contains(t, body, "Pet Otel")
	assert.Contains(t, body, "Mehmet K.")
	assert.Contains(t, body, "4.9")
	assert.Contains(t, body, "600+")
	assert.Contains(t, body, "144+", "missing grooming count falls back")
	assert.Contains(t, body, "info@barklounge.test")
	assert.Contains(t, body, hydration.DefaultWorkingHours)
	assert.Contains(t, body, "Kış Bakımı")
	assert.Contains(t, body, `<title>Bark &amp; Lounge | Ana Sayfa</title>`)
	assert.Contains(t, body, `id="__SSR_DATA__"`)
	assert.NotContains(t, body, "Veriler Yüklenemedi")
}

func TestHomeIsAllOrNothing(t *testing.T) {
	fake := homeFake()
	fake.SetErr("ReviewStats", &api.NetworkError{Method: http.MethodGet, URL: "reviews/stats", Err: errors.New("refused")})
	e := setup(t, fake)
	cl := &client{router: e.router}

	w := cl.get("/")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Veriler Yüklenemedi")
	assert.NotContains(t, w.Body.String(), "Dostunuz emin ellerde")
}

func TestHomeShowsContactErrors(t *testing.T) {
	e := setup(t, homeFake())
	cl := &client{router: e.router}
	cl.get("/")

	form := url.Values{"name": {"Zeynep"}, "email": {"zeynep"}, "subject": {"Kreş"}, "message": {"Merhaba"}}
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := cl.do(req)
	require.Equal(t, http.StatusSeeOther, w.Code)

	body := cl.get("/").Body.String()
	assert.Contains(t, body, "Geçerli bir e-posta adresi giriniz")
	assert.Contains(t, body, `value="Zeynep"`)
}

func TestSitemap(t *testing.T) {
	e := setup(t, homeFake())
	cl := &client{router: e.router}

	w := cl.get("/sitemap.xml")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/xml; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "<loc>https://barklounge.test</loc>")
	assert.Contains(t, body, "<loc>https://barklounge.test/blog</loc>")
	assert.Contains(t, body, "<loc>https://barklounge.test/blog/kis-bakimi</loc>")
	assert.Contains(t, body, "<lastmod>2025-01-10T09:00:00Z</lastmod>")
	assert.Contains(t, body, "<lastmod>2025-01-12T09:00:00Z</lastmod>")
	assert.Equal(t, 2, strings.Count(body, "<priority>0.8</priority>"))
}

func TestSitemapWithoutPosts(t *testing.T) {
	fake := homeFake()
	fake.SetErr("PublishedPosts", &api.TimeoutError{Method: http.MethodGet, URL: "blog/published", Timeout: time.Second})
	e := setup(t, fake)
	cl := &client{router: e.router}

	w := cl.get("/sitemap.xml")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, strings.Count(w.Body.String(), "<url>"))
}

func TestRobotsIsCached(t *testing.T) {
	e := setup(t, homeFake())
	cl := &client{router: e.router}

	w := cl.get("/robots.txt")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	body := w.Body.String()
	assert.Contains(t, body, "User-Agent: *\nAllow: /\n")
	assert.Contains(t, body, "Disallow: /static/")
	assert.Contains(t, body, "User-Agent: Googlebot")
	assert.Contains(t, body, "Sitemap: https://barklounge.test/sitemap.xml")

	w = cl.get("/robots.txt")
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Equal(t, body, w.Body.String())
}

func TestHealth(t *testing.T) {
	e := setup(t, homeFake())
	w := (&client{router: e.router}).get("/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","visitor":true}`, w.Body.String())
}

func TestDataEndpoint(t *testing.T) {
	e := setup(t, homeFake())
	cl := &client{router: e.router}

	w := cl.get("/_data/reviews?wait=1")
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Value  []models.CustomerReview `json:"value"`
		Status string                  `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "succeeded", res.Status)
	require.Len(t, res.Value, 1)
	assert.Equal(t, "Mehmet K.", res.Value[0].Name)

	w = cl.get("/_data/kedi")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDataEndpointRetry(t *testing.T) {
	fake := homeFake()
	fake.SetErr("ActiveSlides", &api.HTTPError{StatusCode: http.StatusBadGateway, Body: "bad gateway"})
	e := setup(t, fake)
	cl := &client{router: e.router}

	w := cl.get("/_data/slides?wait=1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"failed"`)

	fake.SetErr("ActiveSlides", nil)
	w = cl.get("/_data/slides?retry=1")
	assert.Contains(t, w.Body.String(), `"status":"succeeded"`)
	assert.Contains(t, w.Body.String(), "Dostunuz emin ellerde")
}

func TestDataEndpointCORS(t *testing.T) {
	e := setup(t, homeFake())
	req := httptest.NewRequest(http.MethodGet, "/_data/settings", nil)
	req.Header.Set("Origin", "https://admin.barklounge.test")
	w := (&client{router: e.router}).do(req)
	assert.Equal(t, "https://admin.barklounge.test", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestJanitorSweep(t *testing.T) {
	fake := homeFake()
	reg := store.NewRegistry(time.Millisecond, func() *store.Store {
		return store.New(store.Options{Reader: fake, Sender: fake})
	})
	reg.Get("a")
	reg.Get("b")
	time.Sleep(5 * time.Millisecond)

	j := NewJanitor(reg, nil, contact.NewContactModule(1, nil), time.Hour, time.Minute, nil)
	j.Sweep()
	assert.Equal(t, 0, reg.Len())

	require.NoError(t, j.Start("@every 1h"))
	<-j.Stop().Done()
	assert.Error(t, NewJanitor(reg, nil, nil, 0, 0, nil).Start("not a schedule"))
}

func TestNotFoundPage(t *testing.T) {
	e := setup(t, homeFake())
	w := (&client{router: e.router}).get("/kediler")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Sayfa Bulunamadı")
	assert.Contains(t, w.Body.String(), `href="/"`)
}

func TestPanicRendersErrorPage(t *testing.T) {
	e := setup(t, homeFake())
	router := gin.New()
	router.SetHTMLTemplate(views.MustParse("https://barklounge.test"))
	router.Use(common.Recovery(zap.NewNop(), e.module.ErrorPage))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Bir Hata Oluştu")
	assert.Contains(t, w.Body.String(), `href="/boom"`)
}
