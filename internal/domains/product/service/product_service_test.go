package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-backend/internal/domains/product/model"
	"shop-backend/internal/infrastructure/storage"
	"shop-backend/internal/shared/apperr"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProductService_Create(t *testing.T) {
	repo := newMemProductRepo()
	svc := NewProductService(repo, newMemStorage(), storage.NewImageProcessor())

	p, err := svc.Create(context.Background(), model.CreateProductRequest{
		Name:            "Áo thun Nam",
		ListedPrice:     decimal.NewFromInt(200000),
		SalePrice:       decimal.NewFromInt(150000),
		QuantityInStock: 10,
	})
	require.NoError(t, err)
	assert.Len(t, p.Code, 14)
	assert.True(t, strings.HasPrefix(p.Code, "PD"))
	assert.Contains(t, p.Slug, "ao-thun-nam-")
	assert.True(t, p.IsActive)

	_, err = svc.Create(context.Background(), model.CreateProductRequest{
		Code:        p.Code,
		Name:        "Another",
		ListedPrice: decimal.NewFromInt(1),
		SalePrice:   decimal.NewFromInt(1),
	})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestProductService_CreateRejectsSaleAboveListed(t *testing.T) {
	svc := NewProductService(newMemProductRepo(), newMemStorage(), storage.NewImageProcessor())

	_, err := svc.Create(context.Background(), model.CreateProductRequest{
		Name:        "Giày",
		ListedPrice: decimal.NewFromInt(100),
		SalePrice:   decimal.NewFromInt(200),
	})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestProductService_UpdateSalePriceDuringFlashSale(t *testing.T) {
	fsID := uuid.New()
	p := &model.Product{
		ID: uuid.New(), Code: "P1", Name: "P1", Slug: "p1",
		ListedPrice: decimal.NewFromInt(100), SalePrice: decimal.NewFromInt(50),
		CurrentFlashSaleID: &fsID,
	}
	svc := NewProductService(newMemProductRepo(p), newMemStorage(), storage.NewImageProcessor())

	price := decimal.NewFromInt(60)
	_, err := svc.Update(context.Background(), p.ID, model.UpdateProductRequest{SalePrice: &price})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	name := "Renamed"
	updated, err := svc.Update(context.Background(), p.ID, model.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed-p1", updated.Slug)
}

func TestProductService_UpdateKeepsFlashSalePriceActivatedMidway(t *testing.T) {
	p := &model.Product{
		ID: uuid.New(), Code: "P2", Name: "P2", Slug: "p2",
		ListedPrice: decimal.NewFromInt(100), SalePrice: decimal.NewFromInt(80),
	}
	repo := newMemProductRepo(p)
	fsID := uuid.New()
	repo.beforeUpdate = func(stored *model.Product) {
		stored.SalePrice = decimal.NewFromInt(30)
		stored.CurrentFlashSaleID = &fsID
	}
	svc := NewProductService(repo, newMemStorage(), storage.NewImageProcessor())

	name := "Renamed"
	updated, err := svc.Update(context.Background(), p.ID, model.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.True(t, updated.SalePrice.Equal(decimal.NewFromInt(30)))

	stored := repo.products[p.ID]
	assert.True(t, stored.SalePrice.Equal(decimal.NewFromInt(30)))
	require.NotNil(t, stored.CurrentFlashSaleID)
	assert.Equal(t, fsID, *stored.CurrentFlashSaleID)
	assert.Equal(t, "Renamed", stored.Name)
}

func TestProductService_UpdateSalePriceRejectedWhenFlashSaleActivatesMidway(t *testing.T) {
	p := &model.Product{
		ID: uuid.New(), Code: "P3", Name: "P3", Slug: "p3",
		ListedPrice: decimal.NewFromInt(100), SalePrice: decimal.NewFromInt(80),
	}
	repo := newMemProductRepo(p)
	fsID := uuid.New()
	repo.beforeUpdate = func(stored *model.Product) {
		stored.SalePrice = decimal.NewFromInt(30)
		stored.CurrentFlashSaleID = &fsID
	}
	svc := NewProductService(repo, newMemStorage(), storage.NewImageProcessor())

	price := decimal.NewFromInt(70)
	_, err := svc.Update(context.Background(), p.ID, model.UpdateProductRequest{SalePrice: &price})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	assert.True(t, repo.products[p.ID].SalePrice.Equal(decimal.NewFromInt(30)))
}

func TestProductService_Images(t *testing.T) {
	p := &model.Product{ID: uuid.New(), Code: "IMG", Name: "Img", Slug: "img", Images: []string{}}
	repo := newMemProductRepo(p)
	store := newMemStorage()
	svc := NewProductService(repo, store, storage.NewImageProcessor())
	ctx := context.Background()

	updated, err := svc.AddImages(ctx, p.ID, [][]byte{testPNG(t), testPNG(t)})
	require.NoError(t, err)
	require.Len(t, updated.Images, 2)
	assert.Contains(t, updated.Thumbnail, "-thumbnail.jpg")
	assert.Len(t, store.objects, 4)

	updated, err = svc.RemoveImage(ctx, p.ID, updated.Images[0])
	require.NoError(t, err)
	assert.Len(t, updated.Images, 1)
	assert.Len(t, store.objects, 2)
	assert.Contains(t, updated.Thumbnail, "-thumbnail.jpg")

	_, err = svc.AddImages(ctx, p.ID, [][]byte{[]byte("not an image")})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestProductService_Restock(t *testing.T) {
	p := &model.Product{ID: uuid.New(), Code: "R1", Name: "R1", Slug: "r1", QuantityInStock: 3}
	svc := NewProductService(newMemProductRepo(p), newMemStorage(), storage.NewImageProcessor())

	updated, err := svc.Restock(context.Background(), p.ID, model.RestockRequest{Quantity: 7, ImportPrice: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.QuantityInStock)

	_, err = svc.Restock(context.Background(), p.ID, model.RestockRequest{Quantity: 0})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}
