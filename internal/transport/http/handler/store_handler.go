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

type storeQuery struct {
	Name    string `form:"name"`
	Address string `form:"address"`
}

// myStoreOut is the owner dashboard; Assigned=false with a null store means
// no store has been registered for the owner yet.
type myStoreOut struct {
	Assigned bool          `json:"assigned"`
	Store    *domain.Store `json:"store"`
}

type StoreHandler struct {
	stores *service.StoreService
	log    *zap.Logger
}

func NewStoreHandler(stores *service.StoreService, l *zap.Logger) *StoreHandler {
	return &StoreHandler{stores: stores, log: l}
}

func (h *StoreHandler) Priority() int { return 30 }

func (h *StoreHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, h.log)
	h.mountRead(e)

	ez.RegisterAction(e, ez.Action[struct{}, myStoreOut]{
		Method: http.MethodGet,
		Path:   "/stores/mine",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, actor policy.Actor, _ *struct{}) (myStoreOut, error) {
			st, err := h.stores.ForOwner(c.Request.Context(), actor, actor.ID)
			if err != nil {
				return myStoreOut{}, err
			}
			return myStoreOut{Assigned: st != nil, Store: st}, nil
		},
	})

	h.mountUpdate(e)
}

func (h *StoreHandler) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g, h.log)
	h.mountRead(e)
	h.mountUpdate(e)

	ez.RegisterAction(e, ez.Action[service.NewStoreInput, *domain.Store]{
		Method: http.MethodPost,
		Path:   "/stores",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, actor policy.Actor, in *service.NewStoreInput) (*domain.Store, error) {
			return h.stores.Create(c.Request.Context(), actor, *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/stores/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, actor policy.Actor, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := h.stores.Delete(c.Request.Context(), actor, id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}

func (h *StoreHandler) mountRead(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[storeQuery, []service.StoreListing]{
		Method: http.MethodGet,
		Path:   "/stores",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, actor policy.Actor, q *storeQuery) ([]service.StoreListing, error) {
			return h.stores.List(c.Request.Context(), actor, domain.StoreFilter{
				NameContains:    q.Name,
				AddressContains: q.Address,
			})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Store]{
		Method: http.MethodGet,
		Path:   "/stores/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, actor policy.Actor, _ *struct{}) (*domain.Store, error) {
			return h.stores.Get(c.Request.Context(), actor, c.Param("id"))
		},
	})
}

func (h *StoreHandler) mountUpdate(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[service.StorePatch, *domain.Store]{
		Method: http.MethodPut,
		Path:   "/stores/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, actor policy.Actor, in *service.StorePatch) (*domain.Store, error) {
			return h.stores.UpdateProfile(c.Request.Context(), actor, c.Param("id"), *in)
		},
	})
}
