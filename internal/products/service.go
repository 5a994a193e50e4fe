package products

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"sima/internal/cache"
)

var (
	ErrInvalidPrice        = errors.New("price must be zero or positive")
	ErrEmptyStock          = errors.New("at least one stock item is required")
	ErrStorageUnavailable  = errors.New("image storage is not available")
	ErrNoImage             = errors.New("product has no image")
	ErrContentTypeRejected = errors.New("content type is not an allowed image type")
)

const (
	uploadURLTTL   = 15 * time.Minute
	downloadURLTTL = time.Hour
)

var allowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// EventPublisher publishes inventory events. The Kafka producer satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// ImageStore presigns product image URLs. storage.Service satisfies it.
type ImageStore interface {
	PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// Service handles business logic for products, sales and stock
type Service struct {
	repo     *Repository
	cache    cache.Store
	cacheTTL time.Duration
	events   EventPublisher
	images   ImageStore
	now      func() time.Time
}

// Option configures optional Service dependencies
type Option func(*Service)

// WithCache enables read-through caching of product lookups
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = store
		s.cacheTTL = ttl
	}
}

// WithEvents publishes inventory events after sales and stock deliveries
func WithEvents(publisher EventPublisher) Option {
	return func(s *Service) { s.events = publisher }
}

// WithImages enables product image URLs
func WithImages(images ImageStore) Option {
	return func(s *Service) { s.images = images }
}

// NewService creates a products service
func NewService(repo *Repository, opts ...Option) *Service {
	s := &Service{repo: repo, cacheTTL: 5 * time.Minute, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

// CreateProduct creates a new product
func (s *Service) CreateProduct(ctx context.Context, name string) (*Product, error) {
	return s.repo.CreateProduct(ctx, name)
}

// GetProduct retrieves a product, consulting the cache first
func (s *Service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	if s.cache != nil {
		p, err := cache.GetJSON[Product](ctx, s.cache, productKey(id))
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			slog.Warn("Product cache read failed", "product_id", id, "error", err)
		}
	}

	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, productKey(id), p, s.cacheTTL); err != nil {
			slog.Warn("Product cache write failed", "product_id", id, "error", err)
		}
	}

	return p, nil
}

// ListProducts returns all products
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	return s.repo.ListProducts(ctx)
}

// UpdateProduct applies req to the product
func (s *Service) UpdateProduct(ctx context.Context, id int64, req UpdateProductRequest) (*Product, error) {
	if req.Name == nil {
		return s.GetProduct(ctx, id)
	}

	p, err := s.repo.RenameProduct(ctx, id, *req.Name)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return p, nil
}

// DeleteProduct removes the product and its image
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)

	if p.ImageKey != "" && s.images != nil {
		if err := s.images.Delete(ctx, p.ImageKey); err != nil {
			slog.Warn("Failed to delete product image", "product_id", id, "image_key", p.ImageKey, "error", err)
		}
	}

	return nil
}

func (s *Service) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, productKey(id)); err != nil {
		slog.Warn("Product cache invalidation failed", "product_id", id, "error", err)
	}
}

// RecordSale stores a sale under a new sale list and publishes sale.recorded
func (s *Service) RecordSale(ctx context.Context, productID int64, req CreateSaleRequest) (*SaleList, *Sale, error) {
	if req.SellingPrice.IsNegative() {
		return nil, nil, ErrInvalidPrice
	}
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, nil, err
	}

	list, sale, err := s.repo.RecordSale(ctx, productID, req)
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, InventoryEvent{
		Type:       EventSaleRecorded,
		ProductID:  productID,
		ListID:     list.ID,
		Quantity:   sale.Quantity,
		Amount:     sale.SellingPrice.Mul(decimal.NewFromInt(int64(sale.Quantity))),
		OccurredAt: s.now().UTC(),
	})

	return list, sale, nil
}

// ListSales returns the sales of an existing product
func (s *Service) ListSales(ctx context.Context, productID int64) ([]Sale, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.ListSales(ctx, productID)
}

// DeleteSales removes all sales of an existing product
func (s *Service) DeleteSales(ctx context.Context, productID int64) (int64, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return 0, err
	}
	return s.repo.DeleteSales(ctx, productID)
}

// ListSaleLists returns the sale lists of an existing product
func (s *Service) ListSaleLists(ctx context.Context, productID int64) ([]SaleList, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.ListSaleLists(ctx, productID)
}

// DeleteSaleLists removes all sale lists of an existing product
func (s *Service) DeleteSaleLists(ctx context.Context, productID int64) (int64, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return 0, err
	}
	return s.repo.DeleteSaleLists(ctx, productID)
}

// ReceiveStock stores a delivery of stock items and publishes stock.received
func (s *Service) ReceiveStock(ctx context.Context, productID int64, name string, items []StockItemRequest) (*StockList, []Stock, error) {
	if len(items) == 0 {
		return nil, nil, ErrEmptyStock
	}
	if lo.SomeBy(items, func(item StockItemRequest) bool { return item.BuyingPrice.IsNegative() }) {
		return nil, nil, ErrInvalidPrice
	}
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, nil, err
	}

	list, stock, err := s.repo.ReceiveStock(ctx, productID, name, items)
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, InventoryEvent{
		Type:      EventStockReceived,
		ProductID: productID,
		ListID:    list.ID,
		Quantity:  lo.SumBy(stock, func(st Stock) int { return st.Quantity }),
		Amount: lo.Reduce(stock, func(total decimal.Decimal, st Stock, _ int) decimal.Decimal {
			return total.Add(st.BuyingPrice.Mul(decimal.NewFromInt(int64(st.Quantity))))
		}, decimal.Zero),
		OccurredAt: s.now().UTC(),
	})

	return list, stock, nil
}

// ListStock returns the stock rows of an existing product
func (s *Service) ListStock(ctx context.Context, productID int64) ([]Stock, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.ListStock(ctx, productID)
}

// ListStockLists returns the stock lists of an existing product
func (s *Service) ListStockLists(ctx context.Context, productID int64) ([]StockList, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.ListStockLists(ctx, productID)
}

// DeleteStockLists removes the stock lists and stock rows of an existing product
func (s *Service) DeleteStockLists(ctx context.Context, productID int64) (int64, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return 0, err
	}
	return s.repo.DeleteStockLists(ctx, productID)
}

func (s *Service) publish(ctx context.Context, event InventoryEvent) {
	if s.events == nil {
		return
	}
	key := strconv.FormatInt(event.ProductID, 10)
	if err := s.events.Publish(ctx, key, event); err != nil {
		slog.Warn("Failed to publish inventory event", "type", event.Type, "product_id", event.ProductID, "error", err)
	}
}

// ImageUploadURL assigns a fresh image key to the product and presigns an
// upload for it
func (s *Service) ImageUploadURL(ctx context.Context, productID int64, contentType string) (*ImageURLResponse, error) {
	if s.images == nil {
		return nil, ErrStorageUnavailable
	}
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, ErrContentTypeRejected
	}
	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("products/%d/%s.%s", productID, uuid.NewString(), ext)
	url, err := s.images.PresignUpload(ctx, key, contentType, uploadURLTTL)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetImageKey(ctx, productID, key); err != nil {
		return nil, err
	}
	s.invalidate(ctx, productID)

	// The replaced object is no longer referenced by any product.
	if p.ImageKey != "" {
		if err := s.images.Delete(ctx, p.ImageKey); err != nil {
			slog.Warn("Failed to delete replaced product image", "product_id", productID, "image_key", p.ImageKey, "error", err)
		}
	}

	return &ImageURLResponse{
		URL:       url,
		ImageKey:  key,
		ExpiresAt: s.now().Add(uploadURLTTL).Unix(),
	}, nil
}

// ImageDownloadURL presigns a download of the product image
func (s *Service) ImageDownloadURL(ctx context.Context, productID int64) (*ImageURLResponse, error) {
	if s.images == nil {
		return nil, ErrStorageUnavailable
	}

	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.ImageKey == "" {
		return nil, ErrNoImage
	}

	url, err := s.images.PresignDownload(ctx, p.ImageKey, downloadURLTTL)
	if err != nil {
		return nil, err
	}

	return &ImageURLResponse{
		URL:       url,
		ImageKey:  p.ImageKey,
		ExpiresAt: s.now().Add(downloadURLTTL).Unix(),
	}, nil
}
