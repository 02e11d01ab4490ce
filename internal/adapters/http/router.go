package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/callroom/internal/adapters/rtc"
	"github.com/dkeye/callroom/internal/adapters/signal"
	"github.com/dkeye/callroom/internal/app/orch"
	"github.com/dkeye/callroom/internal/config"
	"github.com/dkeye/callroom/internal/domain"
)

const clientTokenKey = "ct"

// ClientTokenMiddleware keeps a stable per-browser token in the signed
// session cookie. It only correlates log lines across reconnects.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get(clientTokenKey).(string)
		if token == "" {
			token = uuid.NewString()
			session.Set(clientTokenKey, token)
			if err := session.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("save session")
			}
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) (*gin.Engine, error) {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	iceServers, err := rtc.ICEServers(cfg.ICEServers)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 7, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions("CallSessions", store))
	r.Use(ClientTokenMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(o.Metrics.Handler()))

	ctrl := signal.NewSignalWSController(o, cfg)
	call := func(c *gin.Context) {
		ctrl.HandleCall(ctx, c)
	}
	// bare /ws/call reaches the handler too, so it is refused with 1008
	// instead of a trailing-slash redirect
	r.GET("/ws/call", call)
	r.GET("/ws/call/*room", call)

	api := r.Group("/api")

	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": o.Rooms.List()})
	})

	api.GET("/rooms/:id/participants", func(c *gin.Context) {
		room := domain.RoomID(c.Param("id"))
		if !o.Rooms.Exists(room) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		members := o.Registry.ListByRoom(room)
		out := make([]domain.Participant, 0, len(members))
		for _, m := range members {
			out = append(out, *m.Participant)
		}
		c.JSON(http.StatusOK, gin.H{"room": room, "participants": out, "totalParticipants": len(out)})
	})

	iceConfig := rtc.ClientConfiguration(iceServers)
	api.GET("/ice-servers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"iceServers": iceConfig.ICEServers})
	})

	log.Info().Str("module", "adapters.http").Int("ice_servers", len(iceServers)).Msg("router setup")
	return r, nil
}

// NewHandler wraps the router with CORS for the plain HTTP routes.
func NewHandler(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) (http.Handler, error) {
	r, err := SetupRouter(ctx, cfg, o)
	if err != nil {
		return nil, err
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(r), nil
}
