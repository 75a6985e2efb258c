package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/expense_tracker/internal/core/ports/services"
	"github.com/SscSPs/expense_tracker/internal/dto"
	"github.com/gin-gonic/gin"
)

type categorizeHandler struct {
	categorizer portssvc.CategorizerSvc
}

func registerCategorizeRoutes(rg *gin.RouterGroup, categorizer portssvc.CategorizerSvc) {
	h := &categorizeHandler{categorizer: categorizer}
	rg.POST("/categorize", h.categorize)
}

// categorize godoc
// @Summary Categorize a title
// @Description Returns the category an expense with this description would get. Nothing is stored.
// @Tags categorizer
// @Accept  json
// @Produce  json
// @Param   title body dto.CategorizeRequest true "Title to categorize"
// @Success 200 {object} dto.CategorizeResponse
// @Failure 400 {object} dto.ErrorResponse "Missing title"
// @Router /categorize [post]
func (h *categorizeHandler) categorize(c *gin.Context) {
	var req dto.CategorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err, "Invalid request format: ")
		return
	}

	category := h.categorizer.Categorize(c.Request.Context(), req.Title)
	c.JSON(http.StatusOK, dto.CategorizeResponse{Success: true, Category: category.String()})
}
