package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Fazal135/simple-order-app/internal/services"
)

// CatalogHandler serves the product catalog.
type CatalogHandler struct {
	catalog services.CatalogProvider
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalog services.CatalogProvider) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Products returns brands with their products and the allowed price points.
func (h *CatalogHandler) Products(c *fiber.Ctx) error {
	snapshot := h.catalog.Snapshot()
	return c.JSON(fiber.Map{
		"success": true,
		"catalog": snapshot.Brands,
		"mrps":    snapshot.PricePoints,
	})
}
