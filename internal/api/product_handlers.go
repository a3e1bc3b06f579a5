package api

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/suncrest/suncrest-server/internal/domain"
	domainerrors "github.com/suncrest/suncrest-server/internal/errors"
	"github.com/suncrest/suncrest-server/internal/service"
)

func (s *Server) registerProductRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listProducts",
		Method:      http.MethodGet,
		Path:        "/api/products",
		Summary:     "List products",
		Description: "Returns one page of the catalog. A search term queries name, capacity, description and technical details.",
		Tags:        []string{"Products"},
	}, s.handleListProducts)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProduct",
		Method:      http.MethodGet,
		Path:        "/api/products/{id}",
		Summary:     "Get product",
		Description: "Returns a product by ID",
		Tags:        []string{"Products"},
	}, s.handleGetProduct)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteProduct",
		Method:      http.MethodDelete,
		Path:        "/api/products/{id}",
		Summary:     "Delete product",
		Description: "Removes a product and its images",
		Tags:        []string{"Products"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteProduct)
}

// === DTOs ===

// ProductResponse contains product data in API responses.
type ProductResponse struct {
	ID          string         `json:"id" doc:"Product ID"`
	Name        string         `json:"name" doc:"Product name"`
	Price       float64        `json:"price" doc:"Price"`
	Capacity    string         `json:"capacity,omitempty" doc:"Capacity rating, e.g. 550W"`
	Description string         `json:"description,omitempty" doc:"Product description"`
	Details     map[string]any `json:"details,omitempty" doc:"Technical specifications"`
	Images      []string       `json:"images" doc:"Served image paths, first is the card image"`
	ImageHashes []string       `json:"image_hashes,omitempty" doc:"BlurHash placeholders parallel to images"`
	CreatedAt   time.Time      `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time      `json:"updated_at" doc:"Last update time"`
}

func productToResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Capacity:    p.Capacity,
		Description: p.Description,
		Details:     p.Details,
		Images:      p.Images,
		ImageHashes: p.ImageHashes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ListProductsInput contains catalog paging and search parameters.
type ListProductsInput struct {
	Page   int    `query:"page" default:"1" minimum:"1" doc:"Page number"`
	Limit  int    `query:"limit" default:"12" minimum:"1" maximum:"100" doc:"Items per page"`
	Search string `query:"search" doc:"Full-text search term"`
}

// ProductPageResponse is one page of catalog results.
type ProductPageResponse struct {
	Products []ProductResponse `json:"products" doc:"Products on this page"`
	Page     int               `json:"page" doc:"Current page number"`
	Limit    int               `json:"limit" doc:"Items per page"`
	Total    int               `json:"total" doc:"Total matching products"`
}

// ProductPageOutput wraps a catalog page for Huma.
type ProductPageOutput struct {
	Body ProductPageResponse
}

// ProductIDInput identifies one product.
type ProductIDInput struct {
	ID string `path:"id" doc:"Product ID"`
}

// DeleteProductInput identifies one product for deletion.
type DeleteProductInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Product ID"`
}

// ProductOutput wraps a single product for Huma.
type ProductOutput struct {
	Body ProductResponse
}

// DeleteProductOutput confirms a deletion.
type DeleteProductOutput struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}

// === Handlers ===

func (s *Server) handleListProducts(ctx context.Context, input *ListProductsInput) (*ProductPageOutput, error) {
	page, err := s.services.Product.List(ctx, service.ListProductsParams{
		Page:   input.Page,
		Limit:  input.Limit,
		Search: input.Search,
	})
	if err != nil {
		return nil, err
	}

	resp := ProductPageResponse{
		Products: make([]ProductResponse, len(page.Products)),
		Page:     page.Page,
		Limit:    page.Limit,
		Total:    page.Total,
	}
	for i, p := range page.Products {
		resp.Products[i] = productToResponse(p)
	}
	return &ProductPageOutput{Body: resp}, nil
}

func (s *Server) handleGetProduct(ctx context.Context, input *ProductIDInput) (*ProductOutput, error) {
	product, err := s.services.Product.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ProductOutput{Body: productToResponse(product)}, nil
}

func (s *Server) handleDeleteProduct(ctx context.Context, input *DeleteProductInput) (*DeleteProductOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Product.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	out := &DeleteProductOutput{}
	out.Body.Message = "Product deleted"
	return out, nil
}

// handleCreateProduct decodes the multipart product form and creates a
// product. Raw chi handler because of the repeated binary image parts.
func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticateAndRequireAdmin(r.Header.Get("Authorization")); err != nil {
		s.writeError(w, err)
		return
	}

	form, cleanup, err := s.parseMultipartForm(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer cleanup()

	req := service.CreateProductRequest{
		Name:        firstValue(form, "name"),
		Description: firstValue(form, "description"),
		Capacity:    firstValue(form, "capacity"),
		DetailsJSON: firstValue(form, "details"),
	}
	if priceStr := firstValue(form, "price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			s.writeError(w, domainerrors.Validation("price must be a number"))
			return
		}
		req.Price = price
	}

	images, err := s.readProductImages(form)
	if err != nil {
		s.writeError(w, err)
		return
	}
	req.Images = images

	product, err := s.services.Product.Create(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeEnvelope(w, http.StatusCreated, productToResponse(product))
}

// handleUpdateProduct decodes the multipart product form and applies a
// partial update. Only submitted fields change.
func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticateAndRequireAdmin(r.Header.Get("Authorization")); err != nil {
		s.writeError(w, err)
		return
	}

	productID := chi.URLParam(r, "id")
	if productID == "" {
		s.writeError(w, domainerrors.Validation("product ID is required"))
		return
	}

	form, cleanup, err := s.parseMultipartForm(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer cleanup()

	req := service.UpdateProductRequest{}
	if values, ok := form.Value["name"]; ok && len(values) > 0 {
		req.Name = &values[0]
	}
	if values, ok := form.Value["description"]; ok && len(values) > 0 {
		req.Description = &values[0]
	}
	if values, ok := form.Value["capacity"]; ok && len(values) > 0 {
		req.Capacity = &values[0]
	}
	if values, ok := form.Value["details"]; ok && len(values) > 0 {
		req.DetailsJSON = &values[0]
	}
	if priceStr := firstValue(form, "price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			s.writeError(w, domainerrors.Validation("price must be a number"))
			return
		}
		req.Price = &price
	}
	req.RemoveImages = form.Value["removeImages"]

	images, err := s.readProductImages(form)
	if err != nil {
		s.writeError(w, err)
		return
	}
	req.NewImages = images

	product, err := s.services.Product.Update(r.Context(), productID, req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeEnvelope(w, http.StatusOK, productToResponse(product))
}

// parseMultipartForm applies the size limits and parses the multipart body.
func (s *Server) parseMultipartForm(w http.ResponseWriter, r *http.Request) (*multipart.Form, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.uploads.MaxFormBytes)
	if err := r.ParseMultipartForm(s.uploads.MaxFormBytes); err != nil {
		return nil, nil, domainerrors.Validationf("invalid multipart form: %v", err)
	}
	form := r.MultipartForm
	cleanup := func() {
		if err := form.RemoveAll(); err != nil {
			s.logger.Warn("Failed to clean up multipart temp files", "error", err)
		}
	}
	return form, cleanup, nil
}

// readProductImages reads the repeated images parts in submission order.
func (s *Server) readProductImages(form *multipart.Form) ([][]byte, error) {
	var images [][]byte
	for _, header := range form.File["images"] {
		data, err := readFileHeader(header, s.uploads.MaxFileBytes)
		if err != nil {
			return nil, domainerrors.Validationf("images: %v", err)
		}
		images = append(images, data)
	}
	return images, nil
}

// firstValue returns the first value of a form field or empty string.
func firstValue(form *multipart.Form, field string) string {
	if values, ok := form.Value[field]; ok && len(values) > 0 {
		return values[0]
	}
	return ""
}
