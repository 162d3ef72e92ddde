package presenter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/zeebo/xxh3"
	"go.uber.org/zap"

	"github.com/totegamma/apub-playground"
	"github.com/totegamma/apub-playground/schemas"
)

type errorResponse struct {
	Error string `json:"error"`
}

// Presenter writes handler responses and logs failed requests.
type Presenter struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Presenter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Presenter{logger: logger}
}

// OK wraps a successful response.
func (p *Presenter) OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

func (p *Presenter) Accepted(c echo.Context, payload any) error {
	return c.JSON(http.StatusAccepted, payload)
}

// Activity writes payload as an activity document with a content hash ETag.
// A matching If-None-Match answers 304 without a body.
func (p *Presenter) Activity(c echo.Context, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return p.InternalError(c, err)
	}

	etag := ETag(data)
	c.Response().Header().Set("ETag", etag)
	if c.Request().Header.Get("If-None-Match") == etag {
		return c.NoContent(http.StatusNotModified)
	}
	return c.Blob(http.StatusOK, schemas.ActivityJSON, data)
}

// ETag returns the strong entity tag of body.
func ETag(body []byte) string {
	return `"` + strconv.FormatUint(xxh3.Hash(body), 16) + `"`
}

func (p *Presenter) BadRequest(c echo.Context, err error) error {
	p.logger.Debug("bad request", zap.String("path", c.Path()), zap.Error(err))
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func (p *Presenter) BadRequestMessage(c echo.Context, msg string) error {
	p.logger.Debug("bad request", zap.String("path", c.Path()), zap.String("message", msg))
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func (p *Presenter) NotFound(c echo.Context, msg string) error {
	p.logger.Debug("not found", zap.String("path", c.Path()), zap.String("message", msg))
	return c.JSON(http.StatusNotFound, errorResponse{Error: msg})
}

func (p *Presenter) BadGateway(c echo.Context, err error) error {
	p.logger.Warn("upstream failure", zap.String("path", c.Path()), zap.Error(err))
	return c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
}

func (p *Presenter) InternalError(c echo.Context, err error) error {
	p.logger.Error("internal error", zap.String("path", c.Path()), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

// Error picks the response for err from its kind.
func (p *Presenter) Error(c echo.Context, err error) error {
	switch {
	case errors.Is(err, apub.ErrNotFound):
		return p.NotFound(c, err.Error())
	case errors.Is(err, apub.ErrInvalidAddress),
		errors.Is(err, apub.ErrValidationFailed),
		errors.Is(err, apub.ErrDecodeFailed):
		return p.BadRequest(c, err)
	case errors.Is(err, apub.ErrFetchFailed):
		return p.BadGateway(c, err)
	default:
		return p.InternalError(c, err)
	}
}

func (p *Presenter) Created(c echo.Context, payload any) error {
	return c.JSON(http.StatusCreated, payload)
}

func (p *Presenter) ServiceUnavailable(c echo.Context, msg string) error {
	return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: msg})
}
