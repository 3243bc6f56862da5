package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"barklounge/api"
	"barklounge/blog"
	"barklounge/cache"
	"barklounge/common"
	"barklounge/contact"
	"barklounge/database"
	"barklounge/hydration"
	"barklounge/loader"
	"barklounge/resources"
	"barklounge/site"
	"barklounge/store"
	"barklounge/tokens"
	"barklounge/views"
	"barklounge/visitor"
)

func main() {
	cfg, err := common.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := common.NewLogger(cfg.IsProduction())
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	if cfg.SessionSecret == "" {
		if cfg.IsProduction() {
			logger.Fatal("SESSION_SECRET environment variable not set")
		}
		cfg.SessionSecret = "barklounge-development-secret"
		logger.Warn("SESSION_SECRET not set, using development secret")
	}

	db := common.ConnectTokenDb(cfg.TokenDB, logger)
	if db != nil {
		if err := database.RunMigrations(db, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}
	persistent := tokens.NewDBStore(db)

	client, err := api.New(api.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
		Tokens:  persistent,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("Invalid API configuration", zap.Error(err))
	}

	content := resources.New(client, logger)
	files := cache.New(cfg.CacheDir)
	registry := store.NewRegistry(cfg.VisitorTTL, func() *store.Store {
		return store.New(store.Options{
			Reader:            content,
			Sender:            content,
			ContactResetAfter: cfg.ContactResetAfter,
		})
	})
	pages := loader.New(loader.Options{
		Reader:         content,
		Cache:          files,
		HomeRevalidate: cfg.HomeRevalidate,
		Logger:         logger,
	})
	bridge := hydration.NewBridge(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	siteModule := site.NewSiteModule(site.Options{
		Loader:  pages,
		Bridge:  bridge,
		Reader:  content,
		Cache:   files,
		SiteURL: cfg.SiteURL,
		Origins: cfg.Origins(),
		Logger:  logger,
	})

	router := gin.New()
	router.Use(gin.Logger(), common.Recovery(logger, siteModule.ErrorPage))
	router.Use(common.CanonicalHostMiddleware(cfg.SiteURL))

	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("barklounge-session", sessionStore))
	router.Use(tokens.Middleware(persistent))
	router.Use(visitor.Middleware(registry, logger))

	router.SetHTMLTemplate(views.MustParse(cfg.SiteURL))
	router.Static("/static", "./static")

	siteModule.RegisterRoutes(router)

	blogModule := blog.NewBlogModule(pages, bridge, logger)
	blogModule.RegisterRoutes(router)

	contactModule := contact.NewContactModule(cfg.ContactRatePerMin, logger)
	contactModule.RegisterRoutes(router)

	janitor := site.NewJanitor(registry, files, contactModule, 24*time.Hour, time.Hour, logger)
	if err := janitor.Start(site.DefaultSweep); err != nil {
		logger.Fatal("Failed to schedule janitor", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("api", cfg.APIBaseURL))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	<-janitor.Stop().Done()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
