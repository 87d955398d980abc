package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"transit_issues/internal/auth"
	"transit_issues/internal/controllers"
	"transit_issues/internal/middleware"
)

// SetupRouter wires middleware and every route group. The identify
// middleware runs globally so any route can read the subject; routes that
// require one enforce it themselves.
func SetupRouter(
	stops *controllers.StopController,
	issues *controllers.IssueController,
	authCtrl *controllers.AuthController,
	verifier auth.Verifier,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())

	// Request logging middleware
	r.Use(ginlog.SetLogger())

	r.Use(middleware.EnableCORS())
	r.Use(middleware.RequireJSON())
	r.Use(middleware.Identify(verifier))

	AuthRoutes(r, authCtrl)
	StopRoutes(r, stops)
	IssueRoutes(r, issues)
	UserRoutes(r, issues)

	return r
}
