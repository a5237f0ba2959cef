package handlers

import (
	"net/http"

	catalogRepo "glowdesk/database/repository/catalog"
	"glowdesk/utils"

	"github.com/gin-gonic/gin"
)

// CatalogHandler exposes the service menu and opening hours.
type CatalogHandler struct {
	Catalog catalogRepo.CatalogRepository
}

func NewCatalogHandler(catalog catalogRepo.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{Catalog: catalog}
}

func (h *CatalogHandler) GetServices(c *gin.Context) {
	categories, err := h.Catalog.GetCategories(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load services", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": categories})
}

func (h *CatalogHandler) GetHours(c *gin.Context) {
	hours, err := h.Catalog.GetBusinessHours(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load hours", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"hours": hours})
}

func (h *CatalogHandler) GetStylists(c *gin.Context) {
	stylists, err := h.Catalog.GetStylists(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load stylists", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"stylists": stylists})
}
