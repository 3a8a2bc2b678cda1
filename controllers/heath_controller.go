package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/grade-explorer/services"
	"github.com/vnkhanh/grade-explorer/ws"
	"gorm.io/gorm"
)

// HealthCheck reports dataset, database and websocket state. db may be nil
// when the shortlist runs in memory.
func HealthCheck(catalog *services.Catalog, db *gorm.DB, hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		datasets := catalog.List()
		failed := 0
		for _, ds := range datasets {
			if ds.LoadError != "" {
				failed++
			}
		}

		response := gin.H{
			"status":    "ok",
			"message":   "Service is healthy",
			"timestamp": time.Now().Unix(),
			"datasets": gin.H{
				"loaded": len(datasets) - failed,
				"failed": failed,
			},
			"db": "memory",
			"websocket": gin.H{
				"enabled": true,
				"stats":   hub.GetStats(),
			},
		}
		if failed > 0 {
			response["status"] = "degraded"
		}

		if db != nil {
			response["db"] = "ok"
			sqlDB, err := db.DB()
			if err != nil {
				response["db"] = "error: cannot get DB instance"
				response["status"] = "degraded"
				c.JSON(http.StatusInternalServerError, response)
				return
			}
			if err := sqlDB.PingContext(c.Request.Context()); err != nil {
				response["db"] = "error: cannot connect to DB"
				response["status"] = "degraded"
				c.JSON(http.StatusInternalServerError, response)
				return
			}
		}

		c.JSON(http.StatusOK, response)
	}
}
