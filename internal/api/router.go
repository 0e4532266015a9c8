package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/item-sharing-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/item-sharing-backend/internal/booking/http"
	"github.com/nekogravitycat/item-sharing-backend/internal/identity"
	"github.com/nekogravitycat/item-sharing-backend/internal/item"
	itemHttp "github.com/nekogravitycat/item-sharing-backend/internal/item/http"
	"github.com/nekogravitycat/item-sharing-backend/internal/request"
	requestHttp "github.com/nekogravitycat/item-sharing-backend/internal/request/http"
	"github.com/nekogravitycat/item-sharing-backend/internal/user"
	userHttp "github.com/nekogravitycat/item-sharing-backend/internal/user/http"
)

// Config holds the services and settings the router needs.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	UserService    user.Service
	ItemService    item.Service
	BookingService booking.Service
	RequestService request.Service
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (CORS, logging, request ids, actor identity)
// and registers routes for every module.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(gin.Logger(), gin.Recovery(), RequestID())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", identity.ActorHeader}
	r.Use(cors.New(corsConfig))

	// actorMiddleware: resolves the externally-authenticated actor id.
	actorMiddleware := identity.ActorRequired()

	userHandler := userHttp.NewHandler(cfg.UserService)
	itemHandler := itemHttp.NewHandler(cfg.ItemService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	requestHandler := requestHttp.NewHandler(cfg.RequestService)

	root := r.Group("")
	{
		userHttp.RegisterRoutes(root, userHandler)
		itemHttp.RegisterRoutes(root, itemHandler, actorMiddleware)
		bookingHttp.RegisterRoutes(root, bookingHandler, actorMiddleware)
		requestHttp.RegisterRoutes(root, requestHandler, actorMiddleware)
	}

	return r
}
