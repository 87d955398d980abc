package routes

import (
	"github.com/gin-gonic/gin"

	"transit_issues/internal/controllers"
)

func AuthRoutes(r *gin.Engine, ac *controllers.AuthController) {
	auth := r.Group("/auth")
	{
		auth.GET("/url", ac.AuthURL)
		auth.GET("/callback", ac.Callback)
	}
}
