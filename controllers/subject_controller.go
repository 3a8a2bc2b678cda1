package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/grade-explorer/models"
	"github.com/vnkhanh/grade-explorer/services"
	"github.com/vnkhanh/grade-explorer/ws"
	"go.uber.org/zap"
)

// GET /api/datasets
func GetDatasets(catalog *services.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": catalog.List()})
	}
}

// GET /api/datasets/:name/subjects?sort=&category=&search=&semester=&page=&limit=
func GetSubjects(catalog *services.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		sortMode, err := services.ParseSortMode(c.Query("sort"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sort must be asc, desc or empty"})
			return
		}

		semester := 0
		if s := c.Query("semester"); s != "" && !services.IsAllCategories(s) {
			semester, err = strconv.Atoi(s)
			if err != nil || semester < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "semester must be a positive number"})
				return
			}
		}

		params := services.QueryParams{
			Sort:     sortMode,
			Category: c.Query("category"),
			Search:   strings.TrimSpace(c.Query("search")),
			Semester: semester,
		}

		subjects, err := catalog.Query(c.Param("name"), params)
		if err != nil {
			respondCatalogError(c, err)
			return
		}

		page, limit := pagination(c)
		c.JSON(http.StatusOK, gin.H{
			"data":  paginate(subjects, page, limit),
			"total": len(subjects),
			"page":  page,
			"limit": limit,
		})
	}
}

// GET /api/datasets/:name/subjects/:code
func GetSubjectDetail(catalog *services.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, err := catalog.Subject(c.Param("name"), c.Param("code"))
		if err != nil {
			respondCatalogError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"subject": subject})
	}
}

// GET /api/datasets/:name/categories
func GetCategories(catalog *services.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		ds, err := catalog.Get(c.Param("name"))
		if err != nil {
			respondCatalogError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": services.Categories(ds.Subjects)})
	}
}

// POST /api/datasets/:name/reload
func ReloadDataset(catalog *services.Catalog, hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		ds, err := catalog.Reload(c.Request.Context(), name)
		if err != nil {
			if errors.Is(err, services.ErrDatasetNotFound) {
				respondCatalogError(c, err)
				return
			}
			zap.L().Error("dataset reload failed", zap.String("dataset", name), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not reload dataset"})
			return
		}

		hub.BroadcastDatasetReloaded(name, len(ds.Subjects))
		c.JSON(http.StatusOK, gin.H{
			"message": "dataset reloaded",
			"dataset": ds.Info(),
		})
	}
}

func respondCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDatasetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "dataset not found"})
	case errors.Is(err, services.ErrSubjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "subject not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// pagination reads page/limit; limit 0 means everything.
func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if page < 1 {
		page = 1
	}
	if limit < 0 {
		limit = 0
	}
	return page, limit
}

func paginate(subjects []models.Subject, page, limit int) []models.Subject {
	if limit == 0 {
		return subjects
	}
	// Both checks avoid int overflow for huge page or limit values.
	if page-1 > len(subjects)/limit {
		return []models.Subject{}
	}
	offset := (page - 1) * limit
	if offset >= len(subjects) {
		return []models.Subject{}
	}
	if limit >= len(subjects)-offset {
		return subjects[offset:]
	}
	return subjects[offset : offset+limit]
}
