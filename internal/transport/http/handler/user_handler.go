package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"store-rating/internal/domain"
	"store-rating/internal/policy"
	"store-rating/internal/service"
	"store-rating/internal/transport/http/ez"
)

type userQuery struct {
	Name    string `form:"name"`
	Email   string `form:"email"`
	Address string `form:"address"`
	Role    string `form:"role"`
}

type UserHandler struct {
	users *service.UserService
	log   *zap.Logger
}

func NewUserHandler(users *service.UserService, l *zap.Logger) *UserHandler {
	return &UserHandler{users: users, log: l}
}

func (h *UserHandler) Priority() int { return 20 }

func (h *UserHandler) MountAPI(g *gin.RouterGroup) {
	ez.RegisterAction(ez.New(g, h.log), ez.Action[struct{}, *service.Profile]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, actor policy.Actor, _ *struct{}) (*service.Profile, error) {
			return h.users.Me(c.Request.Context(), actor)
		},
	})
}

func (h *UserHandler) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.RegisterAction(e, ez.Action[service.NewUserInput, *service.Profile]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, actor policy.Actor, in *service.NewUserInput) (*service.Profile, error) {
			return h.users.Create(c.Request.Context(), actor, *in)
		},
	})

	ez.RegisterAction(e, ez.Action[userQuery, []domain.UserWithRole]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, actor policy.Actor, q *userQuery) ([]domain.UserWithRole, error) {
			return h.users.List(c.Request.Context(), actor, domain.UserFilter{
				NameContains:    q.Name,
				EmailContains:   q.Email,
				AddressContains: q.Address,
				Role:            domain.Role(q.Role),
			})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *service.Profile]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, actor policy.Actor, _ *struct{}) (*service.Profile, error) {
			return h.users.Get(c.Request.Context(), actor, c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, actor policy.Actor, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := h.users.Remove(c.Request.Context(), actor, id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *service.Dashboard]{
		Method: http.MethodGet,
		Path:   "/dashboard",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, actor policy.Actor, _ *struct{}) (*service.Dashboard, error) {
			return h.users.Dashboard(c.Request.Context(), actor)
		},
	})
}
