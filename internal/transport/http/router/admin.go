package router

import (
	"github.com/gin-gonic/gin"

	"store-rating/internal/domain"
	mdw "store-rating/internal/transport/http/middleware"
)

// NewAdminEngine serves /admin/v1; every route requires the administrator
// role, and each service call still runs its own policy check.
func NewAdminEngine(d Deps) *gin.Engine {
	r := base(d)

	admin := r.Group("/admin/v1")
	admin.Use(
		mdw.AuthJWT(d.JWT, d.Services.Roles, d.Log),
		mdw.RequireRole(domain.RoleAdmin),
	)
	NewRegistry(d).MountAllAdmin(admin)
	return r
}
