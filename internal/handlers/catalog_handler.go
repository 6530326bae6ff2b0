package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kalakriti-store/commerce-api/internal/httperr"
	"github.com/kalakriti-store/commerce-api/internal/httpresp"
	"github.com/kalakriti-store/commerce-api/internal/models"
)

type CatalogHandler struct {
	db *gorm.DB
}

func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

// --------- Requests ---------

type CreateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	PricePaise  int64  `json:"price_paise" binding:"required,gt=0"`
	Category    string `json:"category"`
}

type CreateServiceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	PricePaise  int64  `json:"price_paise" binding:"required,gt=0"`
}

type UpdateCatalogRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PricePaise  *int64  `json:"price_paise"`
	Active      *bool   `json:"active"`
}

// --------- Public listings ---------

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))
	category := strings.TrimSpace(strings.ToLower(c.Query("category")))

	q := h.db.Where("active = true")

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var products []models.Product
	if err := q.Order("id ASC").Find(&products).Error; err != nil {
		httperr.Internal(c, "failed_to_list_products", "Failed to list products.")
		return
	}

	httpresp.List(c, products)
}

func (h *CatalogHandler) ListServices(c *gin.Context) {
	var services []models.Service
	if err := h.db.
		Where("active = true").
		Order("id ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Failed to list services.")
		return
	}

	httpresp.List(c, services)
}

// --------- Admin CRUD ---------

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		PricePaise:  req.PricePaise,
		Category:    req.Category,
		Active:      true,
	}

	if err := h.db.Create(&product).Error; err != nil {
		httperr.Internal(c, "failed_to_create_product", "Failed to create product.")
		return
	}

	httpresp.Created(c, product)
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	service := models.Service{
		Name:        req.Name,
		Description: req.Description,
		PricePaise:  req.PricePaise,
		Active:      true,
	}

	if err := h.db.Create(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Failed to create service.")
		return
	}

	httpresp.Created(c, service)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var product models.Product
	if err := h.db.First(&product, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "product_not_found", "Product not found.")
		return
	}

	h.applyCatalogUpdate(c, &product, func() {
		c.JSON(http.StatusOK, product)
	})
}

func (h *CatalogHandler) UpdateService(c *gin.Context) {
	var service models.Service
	if err := h.db.First(&service, c.Param("id")).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	h.applyCatalogUpdate(c, &service, func() {
		c.JSON(http.StatusOK, service)
	})
}

func (h *CatalogHandler) applyCatalogUpdate(c *gin.Context, target any, respond func()) {
	var req UpdateCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.PricePaise != nil {
		if *req.PricePaise <= 0 {
			httperr.BadRequest(c, "invalid_price", "Price must be positive.")
			return
		}
		// Existing reservations keep the amount they were quoted; price
		// changes only affect new ones.
		updates["price_paise"] = *req.PricePaise
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) == 0 {
		httperr.BadRequest(c, "empty_update", "Nothing to update.")
		return
	}

	if err := h.db.Model(target).Updates(updates).Error; err != nil {
		httperr.Internal(c, "failed_to_update", "Failed to update.")
		return
	}

	respond()
}
