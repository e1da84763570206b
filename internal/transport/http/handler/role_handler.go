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

type roleOut struct {
	UserID   string      `json:"user_id"`
	Role     domain.Role `json:"role"`
	Assigned bool        `json:"assigned"`
}

type assignRoleIn struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

type RoleHandler struct {
	roles *service.RoleService
	log   *zap.Logger
}

func NewRoleHandler(roles *service.RoleService, l *zap.Logger) *RoleHandler {
	return &RoleHandler{roles: roles, log: l}
}

func (h *RoleHandler) Priority() int { return 10 }

func (h *RoleHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	// first login: the identity comes from the token, the body carries the profile
	ez.RegisterAction(e, ez.Action[service.ProfileInput, roleOut]{
		Method: http.MethodPost,
		Path:   "/roles/bootstrap",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, actor policy.Actor, in *service.ProfileInput) (roleOut, error) {
			role, err := h.roles.Bootstrap(c.Request.Context(), actor.ID, *in)
			if err != nil {
				return roleOut{}, err
			}
			return roleOut{UserID: actor.ID, Role: role, Assigned: true}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, roleOut]{
		Method: http.MethodGet,
		Path:   "/roles/:user_id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, actor policy.Actor, _ *struct{}) (roleOut, error) {
			uid := c.Param("user_id")
			role, ok, err := h.roles.GetRole(c.Request.Context(), actor, uid)
			if err != nil {
				return roleOut{}, err
			}
			return roleOut{UserID: uid, Role: role, Assigned: ok}, nil
		},
	})
}

func (h *RoleHandler) MountAdmin(g *gin.RouterGroup) {
	ez.RegisterAction(ez.New(g, h.log), ez.Action[assignRoleIn, roleOut]{
		Method: http.MethodPost,
		Path:   "/roles",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, actor policy.Actor, in *assignRoleIn) (roleOut, error) {
			role, err := h.roles.AssignRole(c.Request.Context(), actor, in.UserID, in.Role)
			if err != nil {
				return roleOut{}, err
			}
			return roleOut{UserID: in.UserID, Role: role, Assigned: true}, nil
		},
	})
}
