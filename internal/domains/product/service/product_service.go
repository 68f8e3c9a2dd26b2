package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"shop-backend/internal/domains/product/model"
	"shop-backend/internal/domains/product/repository"
	"shop-backend/internal/infrastructure/storage"
	"shop-backend/internal/shared/utils"
	"shop-backend/pkg/logger"
)

type ProductService interface {
	List(ctx context.Context, req model.ListProductsRequest) ([]*model.Product, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
	Create(ctx context.Context, req model.CreateProductRequest) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddImages(ctx context.Context, id uuid.UUID, files [][]byte) (*model.Product, error)
	RemoveImage(ctx context.Context, id uuid.UUID, imageURL string) (*model.Product, error)
	Restock(ctx context.Context, id uuid.UUID, req model.RestockRequest) (*model.Product, error)
}

const productCodePrefix = "PD"

type productService struct {
	repo           repository.ProductRepository
	storage        storage.FileStorage
	imageProcessor *storage.ImageProcessor
}

func NewProductService(
	repo repository.ProductRepository,
	fileStorage storage.FileStorage,
	imageProcessor *storage.ImageProcessor,
) ProductService {
	return &productService{
		repo:           repo,
		storage:        fileStorage,
		imageProcessor: imageProcessor,
	}
}

func (s *productService) List(ctx context.Context, req model.ListProductsRequest) ([]*model.Product, int64, error) {
	req.Normalize()
	products, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, 0, model.NewProductError(model.ErrCodeInternal, "Failed to list products", err)
	}
	return products, total, nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	return p, mapFindError(err)
}

func (s *productService) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	p, err := s.repo.FindBySlug(ctx, slug)
	return p, mapFindError(err)
}

func mapFindError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, model.ErrProductNotFound) {
		return model.NewProductError(model.ErrCodeProductNotFound, "No product found", err)
	}
	return model.NewProductError(model.ErrCodeInternal, "Failed to get product", err)
}

// Create: code rỗng thì sinh "PD" + 12 ký tự, slug = name + code để luôn unique
func (s *productService) Create(ctx context.Context, req model.CreateProductRequest) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewProductError(model.ErrCodeInvalidInput, err.Error(), nil)
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		generated, err := utils.GenerateCode(12)
		if err != nil {
			return nil, model.NewProductError(model.ErrCodeInternal, "Failed to generate product code", err)
		}
		code = productCodePrefix + generated
	}

	p := &model.Product{
		Code:            code,
		Name:            strings.TrimSpace(req.Name),
		Slug:            buildSlug(req.Name, code),
		Description:     req.Description,
		Images:          []string{},
		ListedPrice:     req.ListedPrice,
		SalePrice:       req.SalePrice,
		QuantityInStock: req.QuantityInStock,
		IsActive:        true,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, model.ErrProductExists) {
			return nil, model.NewProductError(model.ErrCodeCodeExists, "Product code already exists", err)
		}
		return nil, model.NewProductError(model.ErrCodeInternal, "Failed to create product", err)
	}

	logger.Info("Product created", map[string]interface{}{"product_id": p.ID, "code": p.Code})
	return p, nil
}

func buildSlug(name, code string) string {
	return utils.GenerateSlug(name + " " + code)
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req model.UpdateProductRequest) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewProductError(model.ErrCodeInvalidInput, err.Error(), nil)
	}

	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
		p.Slug = buildSlug(p.Name, p.Code)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.ListedPrice != nil {
		p.ListedPrice = *req.ListedPrice
	}
	if req.SalePrice != nil {
		// đang flash sale thì sale_price là giá flash sale, không cho sửa tay
		if p.InFlashSale() {
			return nil, model.NewProductError(model.ErrCodeInvalidInput, "Cannot change sale price during a flash sale", nil)
		}
		p.SalePrice = *req.SalePrice
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if p.SalePrice.GreaterThan(p.ListedPrice) {
		return nil, model.NewProductError(model.ErrCodeInvalidInput, "sale_price: must not exceed listed price", nil)
	}

	if err := s.repo.Update(ctx, p, req.SalePrice); err != nil {
		if errors.Is(err, model.ErrProductInFlashSale) {
			return nil, model.NewProductError(model.ErrCodeInvalidInput, "Cannot change sale price during a flash sale", err)
		}
		return nil, mapFindError(err)
	}
	return p, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapFindError(err)
	}

	// ảnh trên MinIO xoá best-effort
	if err := s.storage.DeleteByPrefix(ctx, imagePrefix(id)); err != nil {
		logger.Error("Failed to delete product images", err)
	}
	return nil
}

// ========================================
// IMAGES
// ========================================

func imagePrefix(id uuid.UUID) string {
	return fmt.Sprintf("products/%s/", id)
}

// AddImages validate, resize (large + thumbnail) rồi upload từng ảnh.
// Ảnh đầu tiên của sản phẩm chưa có thumbnail sẽ thành thumbnail
func (s *productService) AddImages(ctx context.Context, id uuid.UUID, files [][]byte) (*model.Product, error) {
	if len(files) == 0 {
		return nil, model.NewProductError(model.ErrCodeInvalidImage, "No files have been uploaded", nil)
	}

	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for i, data := range files {
		if err := s.imageProcessor.ValidateImage(data); err != nil {
			return nil, model.NewProductError(model.ErrCodeInvalidImage, fmt.Sprintf("File #%d: %s", i+1, err.Error()), err)
		}
	}

	uploaded := []string{}
	for _, data := range files {
		variants, err := s.imageProcessor.ProcessImage(data)
		if err != nil {
			s.cleanup(ctx, uploaded)
			return nil, model.NewProductError(model.ErrCodeInvalidImage, "Failed to process image", err)
		}

		base := imagePrefix(id) + uuid.NewString()
		largeURL, err := s.storage.Upload(ctx, base+"-large.jpg", variants["large"], "image/jpeg")
		if err != nil {
			s.cleanup(ctx, uploaded)
			return nil, model.NewProductError(model.ErrCodeInternal, "Failed to upload image", err)
		}
		uploaded = append(uploaded, largeURL)

		thumbURL, err := s.storage.Upload(ctx, base+"-thumbnail.jpg", variants["thumbnail"], "image/jpeg")
		if err != nil {
			s.cleanup(ctx, uploaded)
			return nil, model.NewProductError(model.ErrCodeInternal, "Failed to upload image", err)
		}
		uploaded = append(uploaded, thumbURL)

		p.Images = append(p.Images, largeURL)
		if p.Thumbnail == "" {
			p.Thumbnail = thumbURL
		}
	}

	if err := s.repo.UpdateImages(ctx, id, p.Thumbnail, p.Images); err != nil {
		s.cleanup(ctx, uploaded)
		return nil, mapFindError(err)
	}
	return p, nil
}

func (s *productService) RemoveImage(ctx context.Context, id uuid.UUID, imageURL string) (*model.Product, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	kept := make([]string, 0, len(p.Images))
	found := false
	for _, img := range p.Images {
		if img == imageURL {
			found = true
			continue
		}
		kept = append(kept, img)
	}
	if !found {
		return nil, model.NewProductError(model.ErrCodeInvalidImage, "Image does not belong to product", nil)
	}

	thumbURL := strings.TrimSuffix(imageURL, "-large.jpg") + "-thumbnail.jpg"
	if p.Thumbnail == thumbURL {
		p.Thumbnail = ""
		if len(kept) > 0 {
			p.Thumbnail = strings.TrimSuffix(kept[0], "-large.jpg") + "-thumbnail.jpg"
		}
	}
	p.Images = kept

	if err := s.repo.UpdateImages(ctx, id, p.Thumbnail, p.Images); err != nil {
		return nil, mapFindError(err)
	}
	s.cleanup(ctx, []string{imageURL, thumbURL})
	return p, nil
}

func (s *productService) cleanup(ctx context.Context, urls []string) {
	for _, u := range urls {
		key, ok := s.storage.KeyFromURL(u)
		if !ok {
			continue
		}
		if err := s.storage.Delete(ctx, key); err != nil {
			logger.Error("Failed to delete object "+key, err)
		}
	}
}

// Restock nhập thêm hàng cho một sản phẩm
func (s *productService) Restock(ctx context.Context, id uuid.UUID, req model.RestockRequest) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewProductError(model.ErrCodeInvalidInput, err.Error(), nil)
	}

	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.IncrementStockByCode(ctx, p.Code, req.Quantity)
	if err != nil {
		return nil, mapFindError(err)
	}

	logger.Info("Product restocked", map[string]interface{}{
		"product_id":   id,
		"quantity":     req.Quantity,
		"import_price": req.ImportPrice.String(),
	})
	return updated, nil
}
