package rest

import (
	"context"
	"io"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/totegamma/apub-playground/internal/domain"
	"github.com/totegamma/apub-playground/internal/present/rest/presenter"
	"github.com/totegamma/apub-playground/internal/service"
	"github.com/totegamma/apub-playground/internal/usecase"
	"github.com/totegamma/apub-playground/schemas"
)

const maxInboxBody = 1 << 20

type Handler struct {
	node    usecase.NodeInfo
	posts   *usecase.PostUsecase
	actors  *usecase.ActorUsecase
	inbox   *usecase.InboxUsecase
	signal  *service.SignalService
	present *presenter.Presenter
	logger  *zap.Logger
}

func NewHandler(
	node usecase.NodeInfo,
	posts *usecase.PostUsecase,
	actors *usecase.ActorUsecase,
	inbox *usecase.InboxUsecase,
	signal *service.SignalService,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		node:    node,
		posts:   posts,
		actors:  actors,
		inbox:   inbox,
		signal:  signal,
		present: presenter.New(logger.Named("presenter")),
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/inbox", h.handleInbox)
	e.POST("/users/:name/inbox", h.handleUserInbox)
	e.GET("/objects/:id", h.handleObject)
	e.GET("/users/:name", h.handleUser)
	e.GET("/.well-known/webfinger", h.handleWebfinger)
	e.GET("/resolve", h.handleResolve)
	e.GET("/actors/resolve", h.handleResolveActor)
	e.POST("/api/v1/actors", h.handleRegister)
	e.POST("/api/v1/posts", h.handleCreatePost)
	e.GET("/realtime", h.handleRealtime)
}

type inboxResponse struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

func (h *Handler) handleInbox(c echo.Context) error {
	ctx := c.Request().Context()

	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxInboxBody))
	if err != nil {
		return h.present.BadRequest(c, err)
	}

	kind, id, err := h.inbox.Receive(ctx, payload)
	if err != nil {
		return h.present.Error(c, err)
	}
	return h.present.Accepted(c, inboxResponse{Type: kind, ID: id})
}

func (h *Handler) handleUserInbox(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := h.actors.Get(ctx, c.Param("name")); err != nil {
		return h.present.Error(c, err)
	}
	return h.handleInbox(c)
}

func (h *Handler) handleObject(c echo.Context) error {
	ctx := c.Request().Context()

	id := h.node.Scheme + "://" + h.node.Domain + "/objects/" + c.Param("id")
	note, err := h.posts.Outbound(ctx, id)
	if err != nil {
		return h.present.Error(c, err)
	}
	return h.present.Activity(c, note)
}

func (h *Handler) handleUser(c echo.Context) error {
	ctx := c.Request().Context()

	person, err := h.actors.Person(ctx, c.Param("name"))
	if err != nil {
		return h.present.Error(c, err)
	}
	return h.present.Activity(c, person)
}

func (h *Handler) handleWebfinger(c echo.Context) error {
	ctx := c.Request().Context()

	resource := c.QueryParam("resource")
	if resource == "" {
		return h.present.BadRequestMessage(c, "resource parameter is required")
	}

	wf, err := h.actors.Webfinger(ctx, resource)
	if err != nil {
		return h.present.Error(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentType, schemas.JRDJSON)
	return h.present.OK(c, wf)
}

func (h *Handler) handleResolve(c echo.Context) error {
	ctx := c.Request().Context()

	ids := c.QueryParams()["id"]
	switch len(ids) {
	case 0:
		return h.present.BadRequestMessage(c, "id parameter is required")
	case 1:
		note, err := h.posts.Outbound(ctx, ids[0])
		if err != nil {
			return h.present.Error(c, err)
		}
		return h.present.Activity(c, note)
	default:
		notes, err := h.posts.OutboundMany(ctx, ids)
		if err != nil {
			return h.present.Error(c, err)
		}
		return h.present.OK(c, notes)
	}
}

func (h *Handler) handleResolveActor(c echo.Context) error {
	ctx := c.Request().Context()

	id := c.QueryParam("id")
	if id == "" {
		return h.present.BadRequestMessage(c, "id parameter is required")
	}

	person, err := h.actors.Outbound(ctx, id)
	if err != nil {
		return h.present.Error(c, err)
	}
	return h.present.Activity(c, person)
}

type registerRequest struct {
	Name string `json:"name"`
}

func (h *Handler) handleRegister(c echo.Context) error {
	ctx := c.Request().Context()

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return h.present.BadRequest(c, err)
	}

	actor, err := h.actors.Register(ctx, req.Name)
	if err != nil {
		return h.present.Error(c, err)
	}

	person, err := h.actors.Person(ctx, actor.Name)
	if err != nil {
		return h.present.Error(c, err)
	}
	return h.present.Created(c, person)
}

type createPostRequest struct {
	Content string `json:"content"`
	Creator string `json:"creator"`
}

func (h *Handler) handleCreatePost(c echo.Context) error {
	ctx := c.Request().Context()

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return h.present.BadRequest(c, err)
	}

	post, err := h.posts.Create(ctx, req.Content, req.Creator)
	if err != nil {
		return h.present.Error(c, err)
	}

	note, err := h.posts.Outbound(ctx, post.ID.String())
	if err != nil {
		return h.present.Error(c, err)
	}
	return h.present.Created(c, note)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Request is a message sent by realtime clients.
type Request struct {
	Type  string   `json:"type"`
	Kinds []string `json:"kinds"`
}

func (h *Handler) handleRealtime(c echo.Context) error {
	if h.signal == nil {
		return h.present.ServiceUnavailable(c, "realtime is not enabled on this node")
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("failed to upgrade websocket", zap.Error(err))
		return err
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	output := make(chan domain.Event)
	go h.signal.Realtime(ctx, output)

	kinds := make(chan []string, 1)
	go func() {
		defer cancel()
		for {
			var req Request
			err := ws.ReadJSON(&req)
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					h.logger.Debug("websocket closed", zap.Error(err))
				}
				return
			}

			switch req.Type {
			case "listen":
				select {
				case <-kinds:
				default:
				}
				kinds <- req.Kinds
			case "h": // heartbeat
			default:
				h.logger.Info("unknown request type", zap.String("type", req.Type))
			}
		}
	}()

	var filter []string
	for {
		select {
		case <-ctx.Done():
			return nil
		case filter = <-kinds:
		case event := <-output:
			if len(filter) > 0 && !slices.Contains(filter, event.Kind) {
				continue
			}
			if err := ws.WriteJSON(event); err != nil {
				h.logger.Error("error writing message", zap.Error(err))
				return nil
			}
		}
	}
}
