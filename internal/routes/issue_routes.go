package routes

import (
	"github.com/gin-gonic/gin"

	"transit_issues/internal/controllers"
)

func IssueRoutes(r *gin.Engine, ic *controllers.IssueController) {
	issues := r.Group("/issues")
	{
		issues.POST("", ic.CreateIssue)
		issues.GET("", ic.ListIssues)
		issues.PUT("", controllers.MethodNotAllowed("GET, POST"))
		issues.PATCH("", controllers.MethodNotAllowed("GET, POST"))
		issues.DELETE("", controllers.MethodNotAllowed("GET, POST"))

		issues.GET("/:issue_id", ic.GetIssue)
		issues.PUT("/:issue_id", ic.ReplaceIssue)
		issues.PATCH("/:issue_id", ic.UpdateIssue)
		issues.DELETE("/:issue_id", ic.DeleteIssue)
		issues.POST("/:issue_id", controllers.MethodNotAllowed("GET, PUT, PATCH, DELETE"))
	}
}
