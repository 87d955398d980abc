package routes

import (
	"github.com/gin-gonic/gin"

	"transit_issues/internal/controllers"
)

func StopRoutes(r *gin.Engine, sc *controllers.StopController) {
	stops := r.Group("/stops")
	{
		stops.POST("", sc.CreateStop)
		stops.GET("", sc.ListStops)
		stops.PUT("", controllers.MethodNotAllowed("GET, POST"))
		stops.PATCH("", controllers.MethodNotAllowed("GET, POST"))
		stops.DELETE("", controllers.MethodNotAllowed("GET, POST"))

		stops.GET("/:stop_id", sc.GetStop)
		stops.PUT("/:stop_id", sc.ReplaceStop)
		stops.PATCH("/:stop_id", sc.UpdateStop)
		stops.DELETE("/:stop_id", sc.DeleteStop)
		stops.POST("/:stop_id", controllers.MethodNotAllowed("GET, PUT, PATCH, DELETE"))

		stops.GET("/:stop_id/issues", sc.ListStopIssues)
		stops.POST("/:stop_id/issues", controllers.MethodNotAllowed("GET"))
		stops.PUT("/:stop_id/issues", controllers.MethodNotAllowed("GET"))
		stops.PATCH("/:stop_id/issues", controllers.MethodNotAllowed("GET"))
		stops.DELETE("/:stop_id/issues", controllers.MethodNotAllowed("GET"))

		stops.PUT("/:stop_id/issues/:issue_id", sc.AttachIssue)
		stops.DELETE("/:stop_id/issues/:issue_id", sc.DetachIssue)
		stops.GET("/:stop_id/issues/:issue_id", controllers.MethodNotAllowed("PUT, DELETE"))
		stops.POST("/:stop_id/issues/:issue_id", controllers.MethodNotAllowed("PUT, DELETE"))
		stops.PATCH("/:stop_id/issues/:issue_id", controllers.MethodNotAllowed("PUT, DELETE"))
	}
}
