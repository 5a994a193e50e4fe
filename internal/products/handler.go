package products

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Handler handles HTTP requests for products, sales and stock
type Handler struct {
	service *Service
}

// NewHandler creates a new products handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the product endpoints on rg
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListProducts)
	rg.POST("", h.CreateProduct)
	rg.GET("/:product_id", h.GetProduct)
	rg.PUT("/:product_id", h.UpdateProduct)
	rg.DELETE("/:product_id", h.DeleteProduct)

	rg.POST("/:product_id/sale", h.CreateSale)
	rg.GET("/:product_id/sale", h.ListSales)
	rg.DELETE("/:product_id/sale", h.DeleteSales)
	rg.GET("/:product_id/sale_list", h.ListSaleLists)
	rg.DELETE("/:product_id/sale_list", h.DeleteSaleLists)

	rg.POST("/:product_id/stock", h.CreateStock)
	rg.GET("/:product_id/stock", h.ListStock)
	rg.GET("/:product_id/stock_list", h.ListStockLists)
	rg.DELETE("/:product_id/stock_list", h.DeleteStockLists)

	rg.POST("/:product_id/image/upload-url", h.ImageUploadURL)
	rg.GET("/:product_id/image/download-url", h.ImageDownloadURL)
}

func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return 0, false
	}
	return id, true
}

// ListProducts handles GET /product
func (h *Handler) ListProducts(c *gin.Context) {
	all, err := h.service.ListProducts(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "failed to list products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": all})
}

// CreateProduct handles POST /product
func (h *Handler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := h.service.CreateProduct(c.Request.Context(), req.Name)
	if err != nil {
		h.writeError(c, err, "failed to create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Product created successfully", "product": p})
}

// GetProduct handles GET /product/:product_id
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	p, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to get product")
		return
	}

	c.JSON(http.StatusOK, p)
}

// UpdateProduct handles PUT /product/:product_id
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := h.service.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err, "failed to update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": p})
}

// DeleteProduct handles DELETE /product/:product_id
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// CreateSale handles POST /product/:product_id/sale
func (h *Handler) CreateSale(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	list, sale, err := h.service.RecordSale(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err, "failed to record sale")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Sale created successfully",
		"sale_list": list,
		"sale":      sale,
	})
}

// ListSales handles GET /product/:product_id/sale
func (h *Handler) ListSales(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	sales, err := h.service.ListSales(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to list sales")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sales":          sales,
		"total_quantity": lo.SumBy(sales, func(s Sale) int { return s.Quantity }),
		"total_revenue": lo.Reduce(sales, func(total decimal.Decimal, s Sale, _ int) decimal.Decimal {
			return total.Add(s.SellingPrice.Mul(decimal.NewFromInt(int64(s.Quantity))))
		}, decimal.Zero),
	})
}

// DeleteSales handles DELETE /product/:product_id/sale
func (h *Handler) DeleteSales(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	n, err := h.service.DeleteSales(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to delete sales")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sales deleted successfully", "deleted": n})
}

// ListSaleLists handles GET /product/:product_id/sale_list
func (h *Handler) ListSaleLists(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	lists, err := h.service.ListSaleLists(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to list sale lists")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sale_lists": lists})
}

// DeleteSaleLists handles DELETE /product/:product_id/sale_list
func (h *Handler) DeleteSaleLists(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	n, err := h.service.DeleteSaleLists(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to delete sale lists")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sale lists deleted successfully", "deleted": n})
}

// CreateStock handles POST /product/:product_id/stock
func (h *Handler) CreateStock(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var items []StockItemRequest
	if err := c.ShouldBindJSON(&items); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	list, stock, err := h.service.ReceiveStock(c.Request.Context(), id, c.Query("name"), items)
	if err != nil {
		h.writeError(c, err, "failed to record stock")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Stock list created successfully",
		"stock_list": list,
		"stock":      stock,
	})
}

// ListStock handles GET /product/:product_id/stock
func (h *Handler) ListStock(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	stock, err := h.service.ListStock(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to list stock")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stock":          stock,
		"total_quantity": lo.SumBy(stock, func(s Stock) int { return s.Quantity }),
	})
}

// ListStockLists handles GET /product/:product_id/stock_list
func (h *Handler) ListStockLists(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	lists, err := h.service.ListStockLists(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to list stock lists")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stock_lists": lists})
}

// DeleteStockLists handles DELETE /product/:product_id/stock_list
func (h *Handler) DeleteStockLists(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	n, err := h.service.DeleteStockLists(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to delete stock lists")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stock lists deleted successfully", "deleted": n})
}

// ImageUploadURL handles POST /product/:product_id/image/upload-url
func (h *Handler) ImageUploadURL(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp, err := h.service.ImageUploadURL(c.Request.Context(), id, req.ContentType)
	if err != nil {
		h.writeError(c, err, "failed to generate upload URL")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ImageDownloadURL handles GET /product/:product_id/image/download-url
func (h *Handler) ImageDownloadURL(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	resp, err := h.service.ImageDownloadURL(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to generate download URL")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrNoImage):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidPrice), errors.Is(err, ErrEmptyStock), errors.Is(err, ErrContentTypeRejected):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		slog.Error(fallback, "error", err, "request_id", c.GetString("request_id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
