package ez

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"store-rating/internal/domain"
	"store-rating/internal/policy"
	mdw "store-rating/internal/transport/http/middleware"
	resp "store-rating/internal/transport/http/response"
)

type Binder string

const (
	BindJSON  Binder = "json"  // request body; an empty body leaves I zero
	BindQuery Binder = "query" // ?a=b via form tags
	BindNone  Binder = "none"  // handler reads c.Param itself
)

// AErr is a transport-level failure that carries its own envelope code.
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeValidation, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }

// Action describes one endpoint: I is bound from the request, O is the
// envelope data.
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Status  int // success status, 200 when zero
	Handler func(c *gin.Context, actor policy.Actor, in *I) (O, error)
}

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ { return EZ{g: g, log: l} }

// RegisterAction mounts a on e's group. The group must run AuthJWT; an
// action reached without an actor answers 401.
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		actor, ok := mdw.ActorFrom(c)
		if !ok || actor.ID == "" {
			Fail(c, e.log, Unauthorized("unauthorized"))
			return
		}

		var in I
		if err := bind(c, a.Binder, &in); err != nil {
			Fail(c, e.log, err)
			return
		}

		out, err := a.Handler(c, actor, &in)
		if err != nil {
			Fail(c, e.log, err)
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

func bind(c *gin.Context, b Binder, in any) error {
	var err error
	switch b {
	case BindJSON:
		err = c.ShouldBindJSON(in)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	case BindQuery:
		err = c.ShouldBindQuery(in)
	}
	if err == nil {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &AErr{Code: resp.CodeTooLarge, Msg: "request body too large", Err: err}
	}
	return &AErr{Code: resp.CodeValidation, Msg: "malformed request: " + err.Error(), Err: err}
}

// Fail writes err as an error envelope. Domain errors keep their kind and
// field; anything else is logged and reported as a bare 500.
func Fail(c *gin.Context, l *zap.Logger, err error) {
	if de, ok := domain.AsError(err); ok {
		code := codeOf(de.Kind)
		c.AbortWithStatusJSON(resp.Status(code),
			resp.Fail(code, de.Error(), resp.ErrorData{Kind: string(de.Kind), Field: de.Field}))
		return
	}
	var ae *AErr
	if errors.As(err, &ae) {
		c.AbortWithStatusJSON(resp.Status(ae.Code), resp.Error(ae.Code, ae.Error()))
		return
	}
	l.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("rid", c.GetString(mdw.KeyRequestID)),
		zap.Error(err),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, resp.Error(resp.CodeServerError, ""))
}

func codeOf(k domain.ErrorKind) int {
	switch k {
	case domain.KindValidation:
		return resp.CodeValidation
	case domain.KindForbidden:
		return resp.CodeForbidden
	case domain.KindNotFound:
		return resp.CodeNotFound
	case domain.KindConflict:
		return resp.CodeConflict
	}
	return resp.CodeServerError
}
