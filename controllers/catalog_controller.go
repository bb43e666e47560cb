package controllers

import (
	"net/http"

	"github.com/Bill-Pill/sunglasses-io/services"
	"github.com/gin-gonic/gin"
)

// CatalogController serves brands and products.
type CatalogController struct {
	catalog services.CatalogService
}

func NewCatalogController(catalog services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// ListBrands handles GET /api/brands.
func (cc *CatalogController) ListBrands(c *gin.Context) {
	c.JSON(http.StatusOK, cc.catalog.ListBrands(c.Request.Context()))
}

// ListProductsForBrand handles GET /api/brands/:id/products.
func (cc *CatalogController) ListProductsForBrand(c *gin.Context) {
	products, err := cc.catalog.ListProductsForBrand(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// SearchProducts handles GET /api/products?query=.
func (cc *CatalogController) SearchProducts(c *gin.Context) {
	products, err := cc.catalog.SearchProducts(c.Request.Context(), c.Query("query"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, products)
}
