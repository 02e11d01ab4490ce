package signal

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/callroom/internal/app/orch"
	"github.com/dkeye/callroom/internal/config"
	"github.com/dkeye/callroom/internal/core"
	"github.com/dkeye/callroom/internal/domain"
)

type SignalWSController struct {
	Orch    *orch.Orchestrator
	Limiter *SignalRateLimiter

	cfg      *config.Config
	upgrader websocket.Upgrader
	validate *validator.Validate
}

func NewSignalWSController(o *orch.Orchestrator, cfg *config.Config) *SignalWSController {
	return &SignalWSController{
		Orch:     o,
		Limiter:  NewSignalRateLimiter(cfg.SignalRateLimit, cfg.SignalRateInterval),
		cfg:      cfg,
		upgrader: websocket.Upgrader{CheckOrigin: originChecker(cfg.AllowedOrigins)},
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// WsSignalConn is the transport endpoint of one call connection.
// It implements core.SignalConnection.
type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newWsSignalConn(ws *websocket.Conn, buffer int) *WsSignalConn {
	return &WsSignalConn{conn: ws, send: make(chan core.Frame, buffer)}
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// HandleCall accepts a connection on /ws/call/{roomId}. A request without a
// usable room id is upgraded and closed right away with 1008.
func (ctl *SignalWSController) HandleCall(ctx context.Context, c *gin.Context) {
	client := c.GetString("client_token")
	room, roomErr := domain.RoomIDFromPath(c.Param("room"))

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("client", client).Msg("ws upgrade")
		return
	}
	if roomErr != nil {
		ctl.refuse(ws, roomErr.Error())
		log.Warn().Err(roomErr).Str("module", "signal").Str("client", client).Msg("connection refused")
		return
	}

	conn := newWsSignalConn(ws, ctl.cfg.SendBuffer)
	connCtx, cancel := context.WithCancel(ctx)
	id, err := ctl.Orch.Connect(room, conn, cancel)
	if err != nil {
		cancel()
		ctl.refuse(ws, err.Error())
		log.Warn().Err(err).Str("module", "signal").Str("client", client).Msg("connection refused")
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("client", client).Str("room", string(room)).Msg("new WS connection")

	go ctl.writePump(connCtx, conn)
	go ctl.readPump(connCtx, cancel, id, conn)
}

func (ctl *SignalWSController) refuse(ws *websocket.Conn, reason string) {
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(ctl.cfg.WriteWait))
	_ = ws.Close()
}

// originChecker allows any origin when the list contains "*". Requests
// without an Origin header come from non-browser clients and pass.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
