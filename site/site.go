package site

import (
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"barklounge/cache"
	"barklounge/contact"
	"barklounge/hydration"
	"barklounge/loader"
	"barklounge/models"
	"barklounge/resources"
	"barklounge/store"
	"barklounge/views"
	"barklounge/visitor"
)

const (
	// DataWait bounds /_data/:resource?wait=1.
	DataWait = 3 * time.Second

	robotsMaxAge = 24 * time.Hour
)

type Options struct {
	Loader  *loader.Loader
	Bridge  *hydration.Bridge
	Reader  resources.Reader
	Cache   *cache.Files
	SiteURL string
	// Origins allowed to call /_data/*. Empty disables CORS headers.
	Origins []string
	Logger  *zap.Logger
}

type SiteModule struct {
	loader  *loader.Loader
	bridge  *hydration.Bridge
	reader  resources.Reader
	cache   *cache.Files
	siteURL string
	origins []string
	wait    time.Duration
	log     *zap.Logger
}

func NewSiteModule(opts Options) *SiteModule {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &SiteModule{
		loader:  opts.Loader,
		bridge:  opts.Bridge,
		reader:  opts.Reader,
		cache:   opts.Cache,
		siteURL: strings.TrimRight(opts.SiteURL, "/"),
		origins: opts.Origins,
		wait:    DataWait,
		log:     log.Named("site"),
	}
}

func (s *SiteModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/", s.index)
	router.NoRoute(s.notFound)
	router.GET("/sitemap.xml", s.sitemap)
	if s.cache != nil {
		router.GET("/robots.txt", s.cache.Middleware("static", robotsMaxAge), s.robots)
	} else {
		router.GET("/robots.txt", s.robots)
	}
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "visitor": visitor.ID(c) != ""})
	})

	dataGroup := router.Group("/_data")
	if len(s.origins) > 0 {
		dataGroup.Use(cors.New(cors.Config{
			AllowOrigins:     s.origins,
			AllowMethods:     []string{"GET", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	{
		dataGroup.GET("/:resource", s.data)
		dataGroup.OPTIONS("/:resource", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}
}

func (s *SiteModule) index(c *gin.Context) {
	ctx := c.Request.Context()
	st := visitor.Store(c)

	bundle, err := s.loader.Home(ctx)
	if err != nil {
		s.log.Error("home page data unavailable", zap.Error(err))
		data := views.Page(c.Request.URL.Path, "home",
			s.loader.HomeMetadata(ctx, hydration.SeoSettings(nil, st)), hydration.FooterSettings(ctx, st))
		c.HTML(http.StatusServiceUnavailable, "home_error.html", data)
		return
	}
	s.bridge.Mount(ctx, st, bundle)

	form := contact.TakeForm(c)
	contactState := st.Contact.Snapshot()
	if contactState.Error != "" {
		// shown once, then the form starts clean
		st.Contact.ClearError()
	}

	data := views.Page(c.Request.URL.Path, "home",
		s.loader.HomeMetadata(ctx, hydration.SeoSettings(bundle.SeoSettings, st)),
		hydration.AppSettings(bundle.AppSettings, st))
	data["slides"] = hydration.Slides(bundle.Slides, st)
	data["about"] = hydration.About(bundle.About, st)
	data["aboutContent"] = hydration.AboutContent(bundle.AboutContent, st)
	data["servicesSection"] = hydration.ServicesSection(bundle.ServicesSection, st)
	data["services"] = hydration.Services(bundle.Services, st)
	data["gallery"] = hydration.Gallery(bundle.Gallery, st)
	data["reviews"] = hydration.Reviews(bundle.Reviews, st)
	data["stats"] = hydration.ReviewStats(bundle.ReviewStats, st)
	data["featured"] = hydration.FeaturedPosts(bundle.FeaturedPosts, st)
	data["contact"] = contactState
	data["form"] = form.Values
	data["formErrors"] = form.Errors

	js, err := hydration.Script(bundle)
	if err != nil {
		s.log.Error("encoding home bundle", zap.Error(err))
		js = "null"
	}
	data["ssrData"] = js
	c.HTML(http.StatusOK, "home.html", data)
}

func (s *SiteModule) layoutSettings(c *gin.Context) *models.AppSettings {
	if st, ok := visitor.Lookup(c); ok {
		return hydration.FooterSettings(c.Request.Context(), st)
	}
	return hydration.AppSettings(&models.AppSettings{}, nil)
}

func (s *SiteModule) notFound(c *gin.Context) {
	data := views.Page(c.Request.URL.Path, "",
		loader.Metadata{Title: "Sayfa Bulunamadı | Bark&Lounge"}, s.layoutSettings(c))
	c.HTML(http.StatusNotFound, "not_found.html", data)
}

// ErrorPage renders the generic error view. It is the panic page.
func (s *SiteModule) ErrorPage(c *gin.Context) {
	data := views.Page(c.Request.URL.Path, "",
		loader.Metadata{Title: "Bir Hata Oluştu | Bark&Lounge"}, s.layoutSettings(c))
	data["retry"] = c.Request.URL.RequestURI()
	c.HTML(http.StatusInternalServerError, "error.html", data)
}

// data serves one resource from the visitor's store. ?wait=1 holds the
// request while a fetch is in flight; ?retry=1 refetches first.
func (s *SiteModule) data(c *gin.Context) {
	ctx := c.Request.Context()
	key, err := store.ParseKey(c.Param("resource"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	st := visitor.Store(c)

	var res hydration.Result
	switch {
	case c.Query("retry") != "":
		res, err = hydration.Retry(ctx, st, key)
	case c.Query("wait") != "":
		res, err = hydration.AccessWait(ctx, st, key, s.wait)
	default:
		res, err = hydration.Access(ctx, st, key)
	}
	if err != nil {
		s.log.Error("reading resource", zap.String("resource", string(key)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func writeURL(b *strings.Builder, loc, lastmod, changefreq, priority string) {
	b.WriteString("  <url>\n")
	b.WriteString("    <loc>")
	_ = xml.EscapeText(b, []byte(loc))
	b.WriteString("</loc>\n")
	if lastmod != "" {
		b.WriteString("    <lastmod>" + lastmod + "</lastmod>\n")
	}
	b.WriteString("    <changefreq>" + changefreq + "</changefreq>\n")
	b.WriteString("    <priority>" + priority + "</priority>\n")
	b.WriteString("  </url>\n")
}

// sitemap lists the two fixed pages and every published post. When the
// post list cannot be loaded only the fixed pages are listed.
func (s *SiteModule) sitemap(c *gin.Context) {
	now := time.Now().UTC().Format(time.RFC3339)

	var sitemap strings.Builder
	sitemap.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	sitemap.WriteString("\n")
	sitemap.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	sitemap.WriteString("\n")

	writeURL(&sitemap, s.siteURL, now, "weekly", "1.0")
	writeURL(&sitemap, s.siteURL+"/blog", now, "daily", "0.9")

	list, err := s.reader.PublishedPosts(c.Request.Context())
	if err != nil {
		s.log.Warn("sitemap without posts", zap.Error(err))
	}
	for _, post := range list {
		writeURL(&sitemap, s.siteURL+"/blog/"+post.Slug,
			post.LastModified().UTC().Format(time.RFC3339), "monthly", "0.8")
	}

	sitemap.WriteString("</urlset>\n")

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, sitemap.String())
}

func (s *SiteModule) robots(c *gin.Context) {
	var robots strings.Builder
	robots.WriteString("User-Agent: *\n")
	robots.WriteString("Allow: /\n")
	for _, path := range []string{"/_partials/", "/_data/", "/static/", "*.json", "*.xml"} {
		robots.WriteString("Disallow: " + path + "\n")
	}
	robots.WriteString("\nUser-Agent: Googlebot\nAllow: /\n")
	robots.WriteString("\nUser-Agent: Bingbot\nAllow: /\n")
	robots.WriteString("\nHost: " + s.siteURL + "\n")
	robots.WriteString("Sitemap: " + s.siteURL + "/sitemap.xml\n")

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, robots.String())
}
