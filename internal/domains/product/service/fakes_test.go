package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	"shop-backend/internal/domains/product/model"
)

type memProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*model.Product

	// beforeUpdate chạy trong Update trước khi ghi, dùng để chen thay đổi đồng thời
	beforeUpdate func(stored *model.Product)
}

func newMemProductRepo(products ...*model.Product) *memProductRepo {
	r := &memProductRepo{products: map[uuid.UUID]*model.Product{}}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *memProductRepo) Create(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.products {
		if existing.Code == p.Code || existing.Slug == p.Slug {
			return model.ErrProductExists
		}
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, model.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) find(match func(*model.Product) bool) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if match(p) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, model.ErrProductNotFound
}

func (r *memProductRepo) FindBySlug(_ context.Context, slug string) (*model.Product, error) {
	return r.find(func(p *model.Product) bool { return p.Slug == slug })
}

func (r *memProductRepo) FindByCode(_ context.Context, code string) (*model.Product, error) {
	return r.find(func(p *model.Product) bool { return p.Code == code })
}

func (r *memProductRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Product, error) {
	out := []*model.Product{}
	for _, id := range ids {
		if p, err := r.FindByID(ctx, id); err == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) List(_ context.Context, req model.ListProductsRequest) ([]*model.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Product{}
	for _, p := range r.products {
		if req.Keyword == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(req.Keyword)) {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memProductRepo) Update(_ context.Context, p *model.Product, salePrice *decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.products[p.ID]
	if !ok {
		return model.ErrProductNotFound
	}
	if r.beforeUpdate != nil {
		r.beforeUpdate(stored)
	}
	if salePrice != nil && stored.CurrentFlashSaleID != nil {
		return model.ErrProductInFlashSale
	}

	cp := *p
	cp.SalePrice = stored.SalePrice
	if salePrice != nil {
		cp.SalePrice = *salePrice
	}
	cp.CurrentFlashSaleID = stored.CurrentFlashSaleID
	r.products[p.ID] = &cp

	p.SalePrice = cp.SalePrice
	p.CurrentFlashSaleID = cp.CurrentFlashSaleID
	return nil
}

func (r *memProductRepo) UpdateImages(_ context.Context, id uuid.UUID, thumbnail string, images []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return model.ErrProductNotFound
	}
	p.Thumbnail = thumbnail
	p.Images = append([]string{}, images...)
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return model.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) IncrementStockByCode(_ context.Context, code string, quantity int) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Code == code {
			p.QuantityInStock += quantity
			cp := *p
			return &cp, nil
		}
	}
	return nil, model.ErrProductNotFound
}

type memImportRepo struct {
	mu      sync.Mutex
	imports map[uuid.UUID]*model.ProductImport
}

func newMemImportRepo() *memImportRepo {
	return &memImportRepo{imports: map[uuid.UUID]*model.ProductImport{}}
}

func (r *memImportRepo) Create(_ context.Context, imp *model.ProductImport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	imp.ID = uuid.New()
	imp.CreatedAt = time.Now()
	cp := *imp
	r.imports[imp.ID] = &cp
	return nil
}

func (r *memImportRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProductImport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	imp, ok := r.imports[id]
	if !ok {
		return nil, model.ErrImportNotFound
	}
	cp := *imp
	return &cp, nil
}

func (r *memImportRepo) List(_ context.Context, _, _ int) ([]*model.ProductImport, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.ProductImport{}
	for _, imp := range r.imports {
		out = append(out, imp)
	}
	return out, int64(len(out)), nil
}

func (r *memImportRepo) MarkProcessing(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	imp, ok := r.imports[id]
	if !ok {
		return model.ErrImportNotFound
	}
	imp.Status = model.ImportStatusProcessing
	return nil
}

func (r *memImportRepo) Complete(_ context.Context, imp *model.ProductImport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	imp.CompletedAt = &now
	cp := *imp
	r.imports[imp.ID] = &cp
	return nil
}

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

const memBaseURL = "http://minio.local/shop/"

func (s *memStorage) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return memBaseURL + key, nil
}

func (s *memStorage) Download(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, model.ErrImportNotFound
	}
	return data, nil
}

func (s *memStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memStorage) DeleteByPrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			delete(s.objects, k)
		}
	}
	return nil
}

func (s *memStorage) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, memBaseURL) {
		return "", false
	}
	return strings.TrimPrefix(url, memBaseURL), true
}

type recordingEnqueuer struct {
	mu    sync.Mutex
	tasks []*asynq.Task
}

func (e *recordingEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}
