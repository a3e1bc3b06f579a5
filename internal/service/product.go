package service

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/suncrest/suncrest-server/internal/domain"
	domainerrors "github.com/suncrest/suncrest-server/internal/errors"
	"github.com/suncrest/suncrest-server/internal/id"
	"github.com/suncrest/suncrest-server/internal/media/images"
	"github.com/suncrest/suncrest-server/internal/search"
	"github.com/suncrest/suncrest-server/internal/store"
)

// ProductService manages the solar equipment catalog.
type ProductService struct {
	store  *store.Store
	images *images.Processor
	index  *search.SearchIndex
	logger *slog.Logger
}

// NewProductService creates a new product service. The search index is
// optional; without it the search parameter falls back to listing.
func NewProductService(st *store.Store, processor *images.Processor, index *search.SearchIndex, logger *slog.Logger) *ProductService {
	return &ProductService{
		store:  st,
		images: processor,
		index:  index,
		logger: logger,
	}
}

// CreateProductRequest contains the multipart fields of a product create.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Price       float64 `json:"price" validate:"gte=0"`
	Capacity    string  `json:"capacity" required:"false" validate:"omitempty,max=50"`
	Description string  `json:"description" required:"false" validate:"omitempty,max=5000"`

	// DetailsJSON is the raw details field as submitted. See ParseDetails.
	DetailsJSON string `json:"-"`

	// Images are the uploaded image bodies in submission order.
	Images [][]byte `json:"-"`
}

// UpdateProductRequest contains the multipart fields of a product update.
// Nil pointers leave the stored value untouched.
type UpdateProductRequest struct {
	Name        *string  `json:"name" required:"false" validate:"omitempty,max=200"`
	Price       *float64 `json:"price" required:"false" validate:"omitempty,gte=0"`
	Capacity    *string  `json:"capacity" required:"false" validate:"omitempty,max=50"`
	Description *string  `json:"description" required:"false" validate:"omitempty,max=5000"`

	// DetailsJSON replaces the details object when non-nil.
	DetailsJSON *string `json:"-"`

	// NewImages are appended to the product's image sequence.
	NewImages [][]byte `json:"-"`

	// RemoveImages are served paths to drop from the sequence. The files
	// are deleted from disk.
	RemoveImages []string `json:"-"`
}

// ListProductsParams selects a page of the catalog.
type ListProductsParams struct {
	Page   int    // 1-based
	Limit  int
	Search string
}

// ProductPage is one page of catalog results.
type ProductPage struct {
	Products []*domain.Product `json:"products"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
	Total    int               `json:"total"`
}

// ParseDetails decodes the free-form details field. The admin console has
// always submitted this as raw JSON text and treated parse failures as "no
// details"; broken input is silently replaced with an empty object rather
// than rejected. Note this throws away whatever the admin typed, but
// existing clients depend on the lenient behavior.
func ParseDetails(raw string) map[string]any {
	if raw == "" {
		return map[string]any{}
	}
	var details map[string]any
	if err := json.Unmarshal([]byte(raw), &details); err != nil || details == nil {
		return map[string]any{}
	}
	return details
}

// Create adds a product to the catalog.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*domain.Product, error) {
	if err := requestValidator.Validate(req); err != nil {
		return nil, err
	}

	productID, err := id.Generate("prod")
	if err != nil {
		return nil, fmt.Errorf("generate product ID: %w", err)
	}

	product := &domain.Product{
		Syncable: domain.Syncable{
			ID: productID,
		},
		Name:        req.Name,
		Price:       req.Price,
		Capacity:    req.Capacity,
		Description: req.Description,
		Details:     ParseDetails(req.DetailsJSON),
		Images:      []string{},
	}
	product.InitTimestamps()

	if err := s.saveImages(product, req.Images); err != nil {
		return nil, err
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		s.removeImages(product.Images)
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

// Get retrieves a product by ID.
func (s *ProductService) Get(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("product not found")
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// Update modifies a product. Only fields present in the request change.
func (s *ProductService) Update(ctx context.Context, productID string, req UpdateProductRequest) (*domain.Product, error) {
	if err := requestValidator.Validate(req); err != nil {
		return nil, err
	}

	product, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Capacity != nil {
		product.Capacity = *req.Capacity
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.DetailsJSON != nil {
		product.Details = ParseDetails(*req.DetailsJSON)
	}

	if len(req.RemoveImages) > 0 {
		s.dropImages(product, req.RemoveImages)
	}
	if err := s.saveImages(product, req.NewImages); err != nil {
		return nil, err
	}

	if err := s.store.UpdateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

// Delete removes a product and its image files.
func (s *ProductService) Delete(ctx context.Context, productID string) error {
	product, err := s.Get(ctx, productID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteProduct(ctx, productID); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.removeImages(product.Images)
	return nil
}

// List returns one page of the catalog. A non-empty search term queries the
// full-text index; matches come back in relevance order.
func (s *ProductService) List(ctx context.Context, params ListProductsParams) (*ProductPage, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 12
	}
	if params.Limit > 100 {
		params.Limit = 100
	}

	if params.Search != "" && s.index != nil {
		return s.searchPage(ctx, params)
	}

	products, err := s.store.ListAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return pageOf(products, params.Page, params.Limit), nil
}

// searchPage resolves a text search against the index, then loads the
// matching products in hit order.
func (s *ProductService) searchPage(ctx context.Context, params ListProductsParams) (*ProductPage, error) {
	searchParams := search.DefaultSearchParams()
	searchParams.Query = params.Search
	searchParams.Limit = params.Limit
	searchParams.Offset = (params.Page - 1) * params.Limit
	searchParams.Highlight = false

	result, err := s.index.Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	products := make([]*domain.Product, 0, len(result.Hits))
	for _, hit := range result.Hits {
		product, err := s.store.GetProduct(ctx, hit.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Index is async; a just-deleted product can still match.
				continue
			}
			return nil, fmt.Errorf("load search hit %s: %w", hit.ID, err)
		}
		products = append(products, product)
	}

	return &ProductPage{
		Products: products,
		Page:     params.Page,
		Limit:    params.Limit,
		Total:    int(result.Total),
	}, nil
}

// saveImages persists uploaded bodies and appends their served paths and
// placeholders to the product.
func (s *ProductService) saveImages(product *domain.Product, uploads [][]byte) error {
	for _, data := range uploads {
		result, err := s.images.SaveProduct(data)
		if err != nil {
			return domainerrors.Validationf("invalid product image: %v", err)
		}
		product.Images = append(product.Images, result.Path)
		product.ImageHashes = append(product.ImageHashes, result.BlurHash)
	}
	return nil
}

// dropImages removes the given served paths from the product and deletes
// the files.
func (s *ProductService) dropImages(product *domain.Product, remove []string) {
	drop := make(map[string]bool, len(remove))
	for _, path := range remove {
		drop[path] = true
	}

	images := product.Images[:0]
	hashes := product.ImageHashes[:0]
	for i, path := range product.Images {
		if drop[path] {
			s.removeImages([]string{path})
			continue
		}
		images = append(images, path)
		if i < len(product.ImageHashes) {
			hashes = append(hashes, product.ImageHashes[i])
		}
	}
	product.Images = images
	product.ImageHashes = hashes
}

// removeImages deletes files best-effort. Orphaned files are preferable to
// a failed catalog write.
func (s *ProductService) removeImages(paths []string) {
	for _, path := range paths {
		if err := s.images.Remove(path); err != nil {
			s.logger.Warn("Failed to remove product image", "path", path, "error", err)
		}
	}
}

// pageOf slices an in-memory product list into a page.
func pageOf(products []*domain.Product, page, limit int) *ProductPage {
	total := len(products)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return &ProductPage{
		Products: products[start:end],
		Page:     page,
		Limit:    limit,
		Total:    total,
	}
}
