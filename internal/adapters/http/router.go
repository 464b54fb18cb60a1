// Package http wires the gin router around the hub. Everything here is a
// thin adapter: JSON shaping, CORS, static pages and the websocket
// endpoint.
package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/junnushon/voice-chat/internal/adapters/ws"
	"github.com/junnushon/voice-chat/internal/config"
	"github.com/junnushon/voice-chat/internal/core"
)

// ClientTokenMiddleware gives every browser a stable token, used as the
// fallback member id when the websocket handshake omits user_id.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(cfg *config.Config, hub *core.Hub) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
		AllowCredentials: true,
	}))

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("ChatSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})
	for _, page := range []string{"create_room.html", "room.html", "room_list.html"} {
		r.GET("/"+page, func(c *gin.Context) {
			c.File(cfg.StaticPath + "/" + page)
		})
	}

	h := &handlers{hub: hub}
	r.POST("/rooms", h.createRoom)
	r.GET("/rooms", h.listRooms)
	r.GET("/room/:room_id/users", h.roomUsers)
	r.POST("/check_password", h.checkPassword)

	ctl := ws.NewController(hub, cfg)
	r.GET("/ws", ctl.Handle)

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")
	return r
}
