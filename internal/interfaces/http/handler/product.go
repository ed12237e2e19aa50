package handler

import (
	tradeapp "github.com/atelierpoz/backoffice/internal/application/trade"
	"github.com/atelierpoz/backoffice/internal/domain/catalog"
	"github.com/atelierpoz/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductHandler handles catalog endpoints
type ProductHandler struct {
	BaseHandler
	productService *tradeapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *tradeapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// CreateProductRequest is the body of POST /products
type CreateProductRequest struct {
	SKU          string               `json:"sku" binding:"required,min=1,max=64"`
	Name         string               `json:"name" binding:"required,min=1,max=200"`
	Price        decimal.Decimal      `json:"price"`
	Stock        int                  `json:"stock" binding:"min=0"`
	Attributes   catalog.Attributes   `json:"attributes"`
	Combinations catalog.Combinations `json:"combinations"`
}

// Create godoc
// @Summary      Create a product
// @Tags         products
// @Param        X-Tenant-ID header string true "Store ID"
// @Param        request body CreateProductRequest true "Product"
// @Success      201 {object} dto.Response{data=tradeapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.InvalidTenant(c)
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), tenantID, tradeapp.CreateProductRequest{
		SKU:          req.SKU,
		Name:         req.Name,
		Price:        req.Price,
		Stock:        req.Stock,
		Attributes:   req.Attributes,
		Combinations: req.Combinations,
		ActorID:      getUserID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// GetByID godoc
// @Summary      Get a product with its stock buckets
// @Tags         products
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.InvalidTenant(c)
		return
	}

	productID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), tenantID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// List godoc
// @Summary      List products
// @Tags         products
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]tradeapp.ProductResponse,meta=dto.Meta}
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.InvalidTenant(c)
		return
	}

	var query dto.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}
	filter := query.Filter()

	products, total, err := h.productService.ListProducts(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}
