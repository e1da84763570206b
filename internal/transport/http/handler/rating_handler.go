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

type myRatingQuery struct {
	StoreID string `form:"store_id"`
}

type myRatingOut struct {
	StoreID string `json:"store_id"`
	Rated   bool   `json:"rated"`
	Value   *int   `json:"value"`
}

type RatingHandler struct {
	ratings *service.RatingService
	log     *zap.Logger
}

func NewRatingHandler(ratings *service.RatingService, l *zap.Logger) *RatingHandler {
	return &RatingHandler{ratings: ratings, log: l}
}

func (h *RatingHandler) Priority() int { return 40 }

func (h *RatingHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.RegisterAction(e, ez.Action[service.RatingInput, *service.RatingResult]{
		Method: http.MethodPost,
		Path:   "/ratings",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, actor policy.Actor, in *service.RatingInput) (*service.RatingResult, error) {
			return h.ratings.Submit(c.Request.Context(), actor, *in)
		},
	})

	ez.RegisterAction(e, ez.Action[myRatingQuery, myRatingOut]{
		Method: http.MethodGet,
		Path:   "/ratings/mine",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, actor policy.Actor, q *myRatingQuery) (myRatingOut, error) {
			v, err := h.ratings.Mine(c.Request.Context(), actor, q.StoreID)
			if err != nil {
				return myRatingOut{}, err
			}
			return myRatingOut{StoreID: q.StoreID, Rated: v != nil, Value: v}, nil
		},
	})

	h.mountStoreRatings(e)
}

func (h *RatingHandler) MountAdmin(g *gin.RouterGroup) {
	h.mountStoreRatings(ez.New(g, h.log))
}

func (h *RatingHandler) mountStoreRatings(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[struct{}, []domain.RatingView]{
		Method: http.MethodGet,
		Path:   "/stores/:id/ratings",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, actor policy.Actor, _ *struct{}) ([]domain.RatingView, error) {
			return h.ratings.ListForStore(c.Request.Context(), actor, c.Param("id"))
		},
	})
}
