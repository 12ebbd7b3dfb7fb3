package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Diagnostics carries the deployment facts the /test endpoint reports but
// cannot learn from the store itself.
type Diagnostics struct {
	Backend         string
	DatabaseURLSet  bool
	DatabaseNameSet bool
}

func Root() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "focustracker backend running"})
	}
}

// StoreDiagnostics is a best-effort connectivity probe. It never fails the
// request; every problem is folded into the status strings.
func StoreDiagnostics(app App, diag Diagnostics) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := gin.H{
			"backend":           "✅ Running",
			"database":          "❌ Not Available",
			"database_url":      setLabel(diag.DatabaseURLSet),
			"database_name":     setLabel(diag.DatabaseNameSet),
			"connection_status": "Not Connected",
			"collections":       []string{},
		}

		ctx := c.Request.Context()
		if err := app.Store().Ping(ctx); err != nil {
			c.JSON(http.StatusOK, resp)
			return
		}

		resp["connection_status"] = "Connected"
		collections, err := app.Store().Collections(ctx)
		if err != nil {
			resp["database"] = "⚠️  Connected but Error: " + truncate(err.Error(), 50)
			c.JSON(http.StatusOK, resp)
			return
		}

		if len(collections) > 10 {
			collections = collections[:10]
		}
		resp["database"] = "✅ Connected & Working"
		resp["collections"] = collections
		c.JSON(http.StatusOK, resp)
	}
}

func setLabel(set bool) string {
	if set {
		return "✅ Set"
	}
	return "❌ Not Set"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
