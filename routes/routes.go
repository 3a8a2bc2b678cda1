package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/grade-explorer/controllers"
	"github.com/vnkhanh/grade-explorer/middleware"
	"github.com/vnkhanh/grade-explorer/services"
	"github.com/vnkhanh/grade-explorer/ws"
	"gorm.io/gorm"
)

// Deps are the long-lived services the handlers share.
type Deps struct {
	Catalog   *services.Catalog
	Electives *services.Electives
	Hub       *ws.Hub
	DB        *gorm.DB // nil when the shortlist is kept in memory
}

func SetupRouter(r *gin.Engine, d Deps) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck(d.Catalog, d.DB, d.Hub))

	api := r.Group("/api")

	datasets := api.Group("/datasets")
	{
		datasets.GET("", controllers.GetDatasets(d.Catalog))
		datasets.GET("/:name/subjects", controllers.GetSubjects(d.Catalog))
		datasets.GET("/:name/subjects/:code", controllers.GetSubjectDetail(d.Catalog))
		datasets.GET("/:name/categories", controllers.GetCategories(d.Catalog))
		datasets.POST("/:name/reload", controllers.ReloadDataset(d.Catalog, d.Hub))
	}

	electives := api.Group("/electives")
	{
		electives.Use(middleware.ClientID())
		electives.GET("", controllers.GetElectives(d.Electives))
		electives.POST("", controllers.AddElective(d.Electives))
		electives.DELETE("/:code", controllers.RemoveElective(d.Electives))
	}

	r.GET("/ws/status", d.Hub.HandleGlobalWebSocket)
	r.GET("/ws/datasets/:name", d.Hub.HandleDatasetWebSocket)

	return r
}
