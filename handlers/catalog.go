package handlers

import (
	"net/http"
	"strconv"

	catalogRepo "servana/database/repository/catalog"
	"servana/middleware"
	catalogSvc "servana/services/catalog"
	"servana/utils"

	"github.com/gin-gonic/gin"
)

// CatalogHandler exposes services and categories over HTTP.
type CatalogHandler struct {
	Catalog catalogSvc.Service
}

// ListServices serves the cached, filtered service listing. The raw query
// parameters feed the cache key so equivalent requests share an entry.
func (h *CatalogHandler) ListServices(c *gin.Context) {
	params := c.Request.URL.Query()
	filter := catalogRepo.ServiceFilter{
		CategoryID: c.Query("category_id"),
		ProviderID: c.Query("provider_id"),
		Search:     c.Query("search"),
	}
	filter.MinPrice, _ = strconv.ParseFloat(c.Query("min_price"), 64)
	filter.MaxPrice, _ = strconv.ParseFloat(c.Query("max_price"), 64)
	filter.Page, _ = strconv.Atoi(c.Query("page"))
	filter.PageSize, _ = strconv.Atoi(c.Query("page_size"))

	services, err := h.Catalog.ListServices(c.Request.Context(), filter, params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

// GetService returns one service by ID.
func (h *CatalogHandler) GetService(c *gin.Context) {
	svc, err := h.Catalog.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

// CreateService lists a new service for the acting provider.
func (h *CatalogHandler) CreateService(c *gin.Context) {
	var input catalogSvc.CreateServiceRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	input.ProviderID = c.GetString(middleware.CtxUserID)

	svc, err := h.Catalog.CreateService(c.Request.Context(), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

// UpdateService modifies a service owned by the acting provider.
func (h *CatalogHandler) UpdateService(c *gin.Context) {
	var input catalogSvc.UpdateServiceRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	svc, err := h.Catalog.UpdateService(c.Request.Context(), c.Param("id"),
		c.GetString(middleware.CtxUserID), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

// DeleteService removes a service owned by the acting provider.
func (h *CatalogHandler) DeleteService(c *gin.Context) {
	if err := h.Catalog.DeleteService(c.Request.Context(), c.Param("id"),
		c.GetString(middleware.CtxUserID)); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "service deleted"})
}

// ListCategories serves the cached category list.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	cats, err := h.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

// CreateCategory adds a browsing category.
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	cat, err := h.Catalog.CreateCategory(c.Request.Context(), input.Name, input.Description)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// UpdateCategory renames or re-describes a category.
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	var input struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	cat, err := h.Catalog.UpdateCategory(c.Request.Context(), c.Param("id"), input.Name, input.Description)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// DeleteCategory removes a category.
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := h.Catalog.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}
