package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/grade-explorer/middleware"
	"github.com/vnkhanh/grade-explorer/models"
	"github.com/vnkhanh/grade-explorer/services"
	"go.uber.org/zap"
)

type AddElectiveInput struct {
	Dataset string `json:"dataset" binding:"required"`
	Code    string `json:"code" binding:"required"`
}

type ElectiveResponse struct {
	Code      string          `json:"code"`
	Dataset   string          `json:"dataset"`
	Title     string          `json:"title"`
	Subject   json.RawMessage `json:"subject"`
	CreatedAt time.Time       `json:"created_at"`
}

func toElectiveResponse(e models.Elective) ElectiveResponse {
	snapshot := json.RawMessage(e.Snapshot)
	if !json.Valid(snapshot) {
		snapshot = json.RawMessage("null")
	}
	return ElectiveResponse{
		Code:      e.Code,
		Dataset:   e.Dataset,
		Title:     e.Title,
		Subject:   snapshot,
		CreatedAt: e.CreatedAt,
	}
}

// GET /api/electives
func GetElectives(electives *services.Electives) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, _ := middleware.GetClientID(c)
		items, err := electives.List(c.Request.Context(), clientID)
		if err != nil {
			zap.L().Error("list electives failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load electives"})
			return
		}

		out := make([]ElectiveResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toElectiveResponse(e))
		}
		c.JSON(http.StatusOK, gin.H{"data": out})
	}
}

// POST /api/electives
func AddElective(electives *services.Electives) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddElectiveInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dataset and code are required"})
			return
		}

		clientID, _ := middleware.GetClientID(c)
		e, err := electives.Add(c.Request.Context(), clientID, input.Dataset, input.Code)
		switch {
		case err == nil:
		case errors.Is(err, services.ErrElectiveExists):
			c.JSON(http.StatusConflict, gin.H{"error": "elective already added"})
			return
		case errors.Is(err, services.ErrDatasetNotFound), errors.Is(err, services.ErrSubjectNotFound):
			respondCatalogError(c, err)
			return
		default:
			zap.L().Error("add elective failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add elective"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":  "elective added",
			"elective": toElectiveResponse(e),
		})
	}
}

// DELETE /api/electives/:code
func RemoveElective(electives *services.Electives) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, _ := middleware.GetClientID(c)
		err := electives.Remove(c.Request.Context(), clientID, c.Param("code"))
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"message": "elective removed"})
		case errors.Is(err, services.ErrElectiveNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "elective not found"})
		default:
			zap.L().Error("remove elective failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not remove elective"})
		}
	}
}
