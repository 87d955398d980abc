package routes

import (
	"github.com/gin-gonic/gin"

	"transit_issues/internal/controllers"
)

func UserRoutes(r *gin.Engine, ic *controllers.IssueController) {
	users := r.Group("/users")
	{
		users.GET("/:user_id/issues", ic.ListUserIssues)
		users.POST("/:user_id/issues", controllers.MethodNotAllowed("GET"))
		users.PUT("/:user_id/issues", controllers.MethodNotAllowed("GET"))
		users.PATCH("/:user_id/issues", controllers.MethodNotAllowed("GET"))
		users.DELETE("/:user_id/issues", controllers.MethodNotAllowed("GET"))
	}
}
