package store

import (
	"context"
	"fmt"

	"github.com/suncrest/suncrest-server/internal/domain"
	"github.com/suncrest/suncrest-server/internal/sse"
)

// Product operations. CRUD goes through the generic entity; this file adds
// the search-index and SSE side effects around it.

// CreateProduct creates a new product.
func (s *Store) CreateProduct(ctx context.Context, product *domain.Product) error {
	if err := s.Products.Create(ctx, product.ID, product); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("product created", "id", product.ID, "name", product.Name)
	}

	s.eventEmitter.Emit(sse.NewProductCreatedEvent(product))
	s.indexProductAsync(product)
	return nil
}

// GetProduct retrieves a product by ID.
func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.Products.Get(ctx, id)
}

// UpdateProduct updates an existing product.
func (s *Store) UpdateProduct(ctx context.Context, product *domain.Product) error {
	product.Touch()
	if err := s.Products.Update(ctx, product.ID, product); err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("product updated", "id", product.ID, "name", product.Name)
	}

	s.eventEmitter.Emit(sse.NewProductUpdatedEvent(product))
	s.indexProductAsync(product)
	return nil
}

// DeleteProduct deletes a product.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.Products.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.Products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("product deleted", "id", id, "name", product.Name)
	}

	s.eventEmitter.Emit(sse.NewProductDeletedEvent(id, product.UpdatedAt))

	if s.searchIndexer != nil {
		go func() {
			if err := s.searchIndexer.DeleteProduct(context.Background(), id); err != nil {
				if s.logger != nil {
					s.logger.Warn("failed to remove product from search index", "product_id", id, "error", err)
				}
			}
		}()
	}
	return nil
}

// ListProducts returns one page of products in key order.
func (s *Store) ListProducts(ctx context.Context, params PaginationParams) (*PaginatedResult[*domain.Product], error) {
	return s.Products.ListPaginated(ctx, params)
}

// ListAllProducts returns all products (non-paginated).
// The catalog is small; the storefront listing pages over this in memory.
func (s *Store) ListAllProducts(ctx context.Context) ([]*domain.Product, error) {
	var products []*domain.Product
	for p, err := range s.Products.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list all products: %w", err)
		}
		products = append(products, p)
	}
	return products, nil
}

// indexProductAsync updates the search index without blocking the write path.
func (s *Store) indexProductAsync(product *domain.Product) {
	if s.searchIndexer == nil {
		return
	}
	go func() {
		if err := s.searchIndexer.IndexProduct(context.Background(), product); err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to index product for search", "product_id", product.ID, "error", err)
			}
		}
	}()
}
