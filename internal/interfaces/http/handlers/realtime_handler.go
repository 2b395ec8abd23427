package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	domainerrors "github.com/TRAPZZY/AGRO--007-sub000/internal/domain/errors"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/repositories"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/interfaces/http/response"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
	wsReadLimit  = 512
)

// ProjectLookup resolves a project for ownership checks
type ProjectLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*entities.Project, error)
}

// subscribedMessage is the first frame sent on a new subscription
type subscribedMessage struct {
	Type   string `json:"type"`
	Table  string `json:"table"`
	Filter string `json:"filter,omitempty"`
}

// RealtimeHandler streams change events over WebSocket
type RealtimeHandler struct {
	feed     repositories.ChangeFeed
	projects ProjectLookup
	upgrader websocket.Upgrader
}

// NewRealtimeHandler creates a realtime handler. An empty origin list, or one
// containing "*", accepts every origin.
func NewRealtimeHandler(feed repositories.ChangeFeed, projects ProjectLookup, allowedOrigins []string) *RealtimeHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &RealtimeHandler{
		feed:     feed,
		projects: projects,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed["*"] || allowed[origin]
			},
		},
	}
}

// Subscribe upgrades to WebSocket and streams the table's change events
// GET /api/v1/realtime/:table?filter=column=eq.value
func (h *RealtimeHandler) Subscribe(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	table := c.Param("table")
	requested, err := entities.ParseFilter(c.Query("filter"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	filter, err := h.scope(c.Request.Context(), p, table, requested)
	if err != nil {
		response.Error(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already written the HTTP error
		logger.Warn(c.Request.Context(), "WebSocket upgrade failed", zap.Error(err))
		return
	}

	sub := h.feed.Subscribe(table, filter)
	logger.Debug(c.Request.Context(), "Realtime subscription opened",
		zap.String("table", table),
		zap.String("filter", filter.String()),
	)

	done := make(chan struct{})
	go h.writePump(conn, sub, subscribedMessage{Type: "SUBSCRIBED", Table: table, Filter: filter.String()}, done)
	h.readPump(conn)

	close(done)
	sub.Close()
}

// readPump consumes client frames so pings and close frames are handled.
// It returns when the client goes away.
func (h *RealtimeHandler) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug(context.Background(), "WebSocket closed unexpectedly", zap.Error(err))
			}
			return
		}
	}
}

// writePump is the connection's only writer
func (h *RealtimeHandler) writePump(conn *websocket.Conn, sub repositories.Subscription, hello subscribedMessage, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := conn.WriteJSON(hello); err != nil {
		return
	}

	events := sub.Events()
	for {
		select {
		case event, ok := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"))
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// scope restricts a subscription to the rows the caller may read. Admins and
// the projects table are unrestricted.
func (h *RealtimeHandler) scope(ctx context.Context, p entities.Principal, table string, requested *entities.Filter) (*entities.Filter, error) {
	switch table {
	case entities.TableProjects:
		return requested, nil
	case entities.TableUsers, entities.TableInvestments, entities.TableKYCDocuments, entities.TableNotifications:
	default:
		return nil, domainerrors.NotFound("Unknown table " + table)
	}
	if _, ok := p.(entities.AdminPrincipal); ok {
		return requested, nil
	}

	self := p.UserID().String()
	var column string
	switch table {
	case entities.TableUsers:
		column = "id"
	case entities.TableKYCDocuments, entities.TableNotifications:
		column = "user_id"
	case entities.TableInvestments:
		if _, ok := p.(entities.FarmerPrincipal); ok {
			return h.farmerInvestments(ctx, p, requested)
		}
		column = "investor_id"
	}

	if requested == nil {
		return &entities.Filter{Column: column, Value: self}, nil
	}
	if requested.Column != column || requested.Value != self {
		return nil, domainerrors.Forbidden("You can only subscribe to your own " + table)
	}
	return requested, nil
}

// farmerInvestments allows a farmer to follow investments in one of their projects
func (h *RealtimeHandler) farmerInvestments(ctx context.Context, p entities.Principal, requested *entities.Filter) (*entities.Filter, error) {
	if requested == nil || requested.Column != "project_id" {
		return nil, domainerrors.Forbidden("Farmers must filter investments by project_id")
	}
	id, err := uuid.Parse(requested.Value)
	if err != nil {
		return nil, domainerrors.BadRequest("Invalid project_id")
	}
	project, err := h.projects.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.FarmerID != p.UserID() {
		return nil, domainerrors.Forbidden("You can only follow investments in your own projects")
	}
	return requested, nil
}
