package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"shop-backend/internal/domains/cart/model"
	"shop-backend/internal/domains/cart/repository"
	productModel "shop-backend/internal/domains/product/model"
	"shop-backend/pkg/logger"
)

// ProductCatalog: product repository đáp ứng interface này
type ProductCatalog interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*productModel.Product, error)
}

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error)
	AddItem(ctx context.Context, userID uuid.UUID, req model.AddItemRequest) (*model.Cart, error)
	UpdateItem(ctx context.Context, userID, productID uuid.UUID, req model.UpdateItemRequest) (*model.Cart, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error

	// RemoveItems gọi từ order service sau khi đặt hàng
	RemoveItems(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) error
}

type cartService struct {
	repo     repository.CartRepository
	products ProductCatalog
}

func NewCartService(repo repository.CartRepository, products ProductCatalog) CartService {
	return &cartService{repo: repo, products: products}
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	quantities, err := s.repo.Items(ctx, userID)
	if err != nil {
		return nil, model.NewCartError(model.ErrCodeInternal, "Failed to get cart", err)
	}
	if len(quantities) == 0 {
		return model.NewCart([]*model.CartItem{}), nil
	}

	ids := make([]uuid.UUID, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, model.NewCartError(model.ErrCodeInternal, "Failed to get cart", err)
	}

	items := make([]*model.CartItem, 0, len(products))
	found := make(map[uuid.UUID]bool, len(products))
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		found[p.ID] = true
		items = append(items, &model.CartItem{
			ProductID:       p.ID,
			Code:            p.Code,
			Name:            p.Name,
			Slug:            p.Slug,
			Thumbnail:       p.Thumbnail,
			ListedPrice:     p.ListedPrice,
			SalePrice:       p.SalePrice,
			QuantityInStock: p.QuantityInStock,
			InFlashSale:     p.InFlashSale(),
			Quantity:        quantities[p.ID],
		})
	}

	// sản phẩm đã bị xoá hoặc ẩn thì bỏ khỏi giỏ
	var stale []uuid.UUID
	for _, id := range ids {
		if !found[id] {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		if _, err := s.repo.Remove(ctx, userID, stale...); err != nil {
			logger.Error("Failed to remove stale cart items", err)
		}
	}

	return model.NewCart(items), nil
}

func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req model.AddItemRequest) (*model.Cart, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewCartError(model.ErrCodeInvalidInput, err.Error(), nil)
	}

	current, err := s.repo.Quantity(ctx, userID, req.ProductID)
	if err != nil {
		return nil, model.NewCartError(model.ErrCodeInternal, "Failed to add to cart", err)
	}
	if err := s.setQuantity(ctx, userID, req.ProductID, current+req.Quantity); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *cartService) UpdateItem(ctx context.Context, userID, productID uuid.UUID, req model.UpdateItemRequest) (*model.Cart, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewCartError(model.ErrCodeInvalidInput, err.Error(), nil)
	}

	current, err := s.repo.Quantity(ctx, userID, productID)
	if err != nil {
		return nil, model.NewCartError(model.ErrCodeInternal, "Failed to update cart", err)
	}
	if current == 0 {
		return nil, model.NewCartError(model.ErrCodeItemNotFound, "Product is not in cart", nil)
	}
	if err := s.setQuantity(ctx, userID, productID, req.Quantity); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

// setQuantity kiểm tra quantity <= tồn kho hiện tại
func (s *cartService) setQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	products, err := s.products.FindByIDs(ctx, []uuid.UUID{productID})
	if err != nil {
		return model.NewCartError(model.ErrCodeInternal, "Failed to update cart", err)
	}
	if len(products) == 0 || !products[0].IsActive {
		return model.NewCartError(model.ErrCodeProductNotFound, "No product found", nil)
	}

	p := products[0]
	if quantity > p.QuantityInStock {
		return model.NewCartError(model.ErrCodeNotEnoughStock,
			fmt.Sprintf("Product '%s' only has %d items left in stock", p.Name, p.QuantityInStock), nil)
	}

	if err := s.repo.SetQuantity(ctx, userID, productID, quantity); err != nil {
		return model.NewCartError(model.ErrCodeInternal, "Failed to update cart", err)
	}
	return nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	n, err := s.repo.Remove(ctx, userID, productID)
	if err != nil {
		return model.NewCartError(model.ErrCodeInternal, "Failed to remove cart item", err)
	}
	if n == 0 {
		return model.NewCartError(model.ErrCodeItemNotFound, "Product is not in cart", nil)
	}
	return nil
}

func (s *cartService) RemoveItems(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) error {
	if _, err := s.repo.Remove(ctx, userID, productIDs...); err != nil {
		return model.NewCartError(model.ErrCodeInternal, "Failed to remove cart items", err)
	}
	return nil
}

func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return model.NewCartError(model.ErrCodeInternal, "Failed to clear cart", err)
	}
	return nil
}
