package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"mareblu/internal/infra/config"
	"mareblu/internal/infra/obs"
)

type QuoteHTTP interface {
	Compute(c *gin.Context)
}

type AvailabilityHTTP interface {
	Check(c *gin.Context)
}

type CatalogHTTP interface {
	List(c *gin.Context)
}

type VisitHTTP interface {
	Log(c *gin.Context)
}

type PricesHTTP interface {
	List(c *gin.Context)
	Put(c *gin.Context)
}

type ReservationsHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	ChangeStatus(c *gin.Context)
}

type CleaningHTTP interface {
	Schedule(c *gin.Context)
}

type GalleryHTTP interface {
	Upload(c *gin.Context)
}

type Handlers struct {
	Quote          QuoteHTTP
	Availability   AvailabilityHTTP
	Catalog        CatalogHTTP
	Visit          VisitHTTP
	Prices         PricesHTTP
	Reservations   ReservationsHTTP
	Cleaning       CleaningHTTP
	Gallery        GalleryHTTP
	Auth           AuthHTTP
	AdminOnly      gin.HandlerFunc
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
	}
	if h.Quote != nil {
		api.POST("/quotes", h.Quote.Compute)
	}
	if h.Availability != nil {
		api.GET("/apartments/:id/availability", h.Availability.Check)
	}
	if h.Catalog != nil {
		api.GET("/apartments", h.Catalog.List)
	}
	if h.Visit != nil {
		api.POST("/visits", h.Visit.Log)
	}

	admin := api.Group("/admin")
	if h.AdminOnly != nil {
		admin.Use(h.AdminOnly)
	}
	if h.Prices != nil {
		admin.GET("/prices", h.Prices.List)
		admin.PUT("/prices", h.Prices.Put)
	}
	if h.Reservations != nil {
		admin.GET("/reservations", h.Reservations.List)
		admin.POST("/reservations", h.Reservations.Create)
		admin.POST("/reservations/:id/status", h.Reservations.ChangeStatus)
	}
	if h.Cleaning != nil {
		admin.GET("/cleaning/schedule", h.Cleaning.Schedule)
	}
	if h.Gallery != nil {
		admin.POST("/gallery", h.Gallery.Upload)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug", "dev", "local":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
