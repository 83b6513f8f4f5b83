package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edumatch/edumatch-backend/internal/config"
	"github.com/edumatch/edumatch-backend/internal/http/middleware"
	"github.com/edumatch/edumatch-backend/internal/interface/http/handler"
)

// Handlers хэндлеры, которые монтирует роутер.
type Handlers struct {
	Listings []*handler.ListingHandler
	Media    *handler.MediaHandler
	WS       *handler.WSHandler
	Health   *handler.HealthHandler
}

func SetupRouter(cfg *config.Config, verifier middleware.TokenVerifier, h Handlers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")
	api.GET("/ws", h.WS.Handle)

	// Публичные маршруты видят аккаунт, если передан токен.
	public := api.Group("/")
	public.Use(middleware.OptionalAuth(verifier))

	protected := api.Group("/")
	protected.Use(middleware.RequireAuth(verifier))

	writeLimit := middleware.RateLimitMiddleware("write", cfg.RateLimitLimit, cfg.RateLimitPeriod)
	counterLimit := middleware.RateLimitMiddleware("counter", cfg.RateLimitLimit, cfg.RateLimitPeriod)

	for _, lh := range h.Listings {
		base := "/" + lh.Kind().Table()
		id := middleware.UUIDValidator("id")

		public.GET(base, lh.List)
		public.GET(base+"/popular", lh.Popular)
		public.GET(base+"/:id", id, lh.Get)

		public.POST(base+"/:id/favorite", id, counterLimit, lh.AddFavorite)
		public.DELETE(base+"/:id/favorite", id, counterLimit, lh.RemoveFavorite)
		if lh.Kind().HasRequests() {
			public.POST(base+"/:id/request", id, counterLimit, lh.AddRequest)
			public.DELETE(base+"/:id/request", id, counterLimit, lh.RemoveRequest)
		}

		protected.GET(base+"/my", lh.ListMine)
		protected.POST(base, writeLimit, lh.Create)
		protected.PUT(base+"/:id", id, writeLimit, lh.Update)

		protected.GET("/admin"+base+"/pending", lh.Pending)
		protected.POST("/admin"+base+"/:id/approve", id, lh.Approve)
		protected.POST("/admin"+base+"/:id/reject", id, lh.Reject)
	}

	protected.POST("/media/images", writeLimit, h.Media.UploadImage)
	protected.DELETE("/media/images", h.Media.DeleteImage)

	return r
}
