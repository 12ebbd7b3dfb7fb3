package api

import "github.com/gin-gonic/gin"

// NewRouter wires the full HTTP surface onto a fresh engine.
func NewRouter(app App, diag Diagnostics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(CORSMiddleware())

	r.GET("/", Root())
	r.GET("/test", StoreDiagnostics(app, diag))

	grp := r.Group("/api")
	grp.POST("/user/register", RegisterUser(app))
	grp.POST("/session/start", StartSession(app))
	grp.POST("/session/activity", RecordActivity(app))
	grp.POST("/session/end", EndSession(app))
	grp.GET("/session/:user_id/summary", SessionSummary(app))

	return r
}
