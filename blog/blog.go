package blog

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"

	"barklounge/api"
	"barklounge/hydration"
	"barklounge/loader"
	"barklounge/models"
	"barklounge/posts"
	"barklounge/store"
	"barklounge/views"
	"barklounge/visitor"
)

// GridWait bounds how long the grid partial holds a request open for an
// in-flight post fetch.
const GridWait = 2 * time.Second

type BlogModule struct {
	loader *loader.Loader
	bridge *hydration.Bridge
	log    *zap.Logger
	wait   time.Duration
}

// Post bodies are stored as markdown or raw HTML; both go through goldmark.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithUnsafe(),
	),
)

func NewBlogModule(l *loader.Loader, bridge *hydration.Bridge, log *zap.Logger) *BlogModule {
	if log == nil {
		log = zap.NewNop()
	}
	return &BlogModule{loader: l, bridge: bridge, log: log.Named("blog"), wait: GridWait}
}

func (b *BlogModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/blog", b.index)
	router.GET("/blog/:slug", b.post)
	router.GET("/_partials/blog-grid", b.grid)
}

func renderContent(content string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(content))
	}
	return template.HTML(buf.String())
}

func queryFrom(c *gin.Context) posts.Query {
	return posts.Query{Search: c.Query("q"), Tag: c.Query("tag")}
}

func listURL(base string, q posts.Query, extra ...string) string {
	v := url.Values{}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.Tag != "" {
		v.Set("tag", q.Tag)
	}
	for i := 0; i+1 < len(extra); i += 2 {
		v.Set(extra[i], extra[i+1])
	}
	if len(v) == 0 {
		return base
	}
	return base + "?" + v.Encode()
}

func (b *BlogModule) index(c *gin.Context) {
	ctx := c.Request.Context()
	st := visitor.Store(c)
	q := queryFrom(c)

	var bundle *hydration.BlogListBundle
	if c.Query("retry") != "" {
		if _, err := hydration.Retry(ctx, st, store.KeyPosts); err != nil {
			b.log.Error("retrying posts", zap.Error(err))
		}
	} else {
		// failures are logged by the loader; the page falls back to the store
		bundle, _ = b.loader.BlogList(ctx)
	}
	b.bridge.Mount(ctx, st, bundle,
		hydration.Ensure(store.KeyPosts, store.KeyFeatured, store.KeyBlogTags))

	var initialTags []models.BlogTag
	if bundle != nil {
		initialTags = bundle.BlogTags
	}
	seo := hydration.SeoSettings(nil, st)

	data := views.Page(c.Request.URL.Path, "blog",
		b.loader.BlogMetadata(ctx, seo), hydration.FooterSettings(ctx, st))
	data["query"] = q
	data["tags"] = hydration.BlogTags(initialTags, st)
	data["grid"] = b.gridData(st, bundle, q)
	data["ssrData"] = script(b.log, bundle)
	c.HTML(http.StatusOK, "blog_list.html", data)
}

// grid serves the post grid alone, for pages polling a fetch started
// without a bundle.
func (b *BlogModule) grid(c *gin.Context) {
	ctx := c.Request.Context()
	st := visitor.Store(c)

	for _, key := range []store.Key{store.KeyFeatured, store.KeyPosts} {
		if _, err := hydration.Access(ctx, st, key); err != nil {
			b.log.Error("starting blog fetch", zap.String("resource", string(key)), zap.Error(err))
		}
	}
	// featured decides what the unfiltered grid leaves out, so wait for both
	for _, key := range []store.Key{store.KeyPosts, store.KeyFeatured} {
		if _, err := hydration.AccessWait(ctx, st, key, b.wait); err != nil {
			b.log.Error("waiting on blog fetch", zap.String("resource", string(key)), zap.Error(err))
		}
	}
	c.HTML(http.StatusOK, "blog_grid", b.gridData(st, nil, queryFrom(c)))
}

func (b *BlogModule) gridData(st *store.Store, bundle *hydration.BlogListBundle, q posts.Query) gin.H {
	var initialPosts, initialFeatured []models.BlogPost
	if bundle != nil {
		initialPosts = bundle.Posts
		initialFeatured = bundle.FeaturedPosts
	}

	status, errMsg := store.StatusSucceeded, ""
	if bundle == nil && !st.Has(store.KeyPosts) {
		if res, msg := st.Status(store.KeyPosts); res == store.StatusFailed {
			status, errMsg = store.StatusFailed, msg
		} else {
			status = store.StatusLoading
		}
	}

	return gin.H{
		"status":   status,
		"error":    errMsg,
		"view":     posts.Filter(hydration.Posts(initialPosts, st), hydration.FeaturedPosts(initialFeatured, st), q),
		"pollURL":  listURL("/_partials/blog-grid", q),
		"retryURL": listURL("/blog", q, "retry", "1"),
	}
}

func (b *BlogModule) post(c *gin.Context) {
	ctx := c.Request.Context()
	st := visitor.Store(c)
	slug := c.Param("slug")

	var (
		bundle *hydration.BlogPostBundle
		err    error
	)
	if c.Query("retry") != "" {
		st.FetchPostBySlug(ctx, slug)
	} else {
		bundle, err = b.loader.BlogPost(ctx, slug)
		if api.IsNotFound(err) {
			b.notFound(c, st)
			return
		}
	}
	b.bridge.Mount(ctx, st, bundle, hydration.EnsurePost(slug))

	var (
		initial *models.BlogPost
		related []models.BlogPost
	)
	if bundle != nil {
		initial = bundle.Post
		related = bundle.RelatedPosts
	}
	post := hydration.CurrentPost(initial, slug, st)

	status, errMsg := "ready", ""
	switch state, fetchErr := st.PostStatus(slug); {
	case post != nil:
		if bundle == nil {
			// related posts only come from what the store already holds
			related = posts.Related(*post, hydration.Posts(nil, st))
		}
	case api.IsNotFound(fetchErr):
		b.notFound(c, st)
		return
	case state == store.StatusFailed:
		status, errMsg = string(store.StatusFailed), fetchErr.Error()
	default:
		status = string(store.StatusLoading)
	}

	data := views.Page(c.Request.URL.Path, "blog",
		b.loader.PostMetadata(ctx, slug, post), hydration.FooterSettings(ctx, st))
	data["status"] = status
	data["error"] = errMsg
	data["post"] = post
	data["related"] = related
	data["retryURL"] = "/blog/" + url.PathEscape(slug) + "?retry=1"
	data["ssrData"] = script(b.log, bundle)
	if post != nil {
		data["content"] = renderContent(post.Content)
	}
	c.HTML(http.StatusOK, "blog_post.html", data)
}

func (b *BlogModule) notFound(c *gin.Context, st *store.Store) {
	data := views.Page(c.Request.URL.Path, "blog",
		loader.Metadata{Title: "Blog Yazısı Bulunamadı | Bark&Lounge"},
		hydration.FooterSettings(c.Request.Context(), st))
	data["heading"] = "Blog Yazısı Bulunamadı"
	data["message"] = "Aradığınız yazı kaldırılmış ya da hiç yayınlanmamış olabilir."
	data["back"] = "/blog"
	data["backLabel"] = "Tüm Yazılara Dön"
	c.HTML(http.StatusNotFound, "not_found.html", data)
}

func script(log *zap.Logger, bundle hydration.Bundle) template.JS {
	js, err := hydration.Script(bundle)
	if err != nil {
		log.Error("encoding page bundle", zap.Error(err))
		return template.JS("null")
	}
	return js
}
