package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"shop-backend/internal/domains/order/model"
	"shop-backend/internal/domains/order/repository"
	"shop-backend/internal/domains/payment/gateway/mock"
	paymentModel "shop-backend/internal/domains/payment/model"
	voucherModel "shop-backend/internal/domains/voucher/model"
	"shop-backend/internal/infrastructure/eventbus"
	"shop-backend/internal/shared"
	"shop-backend/internal/shared/apperr"
)

// =====================================================
// FAKES
// =====================================================

type fakeProduct struct {
	name   string
	code   string
	listed decimal.Decimal
	sale   decimal.Decimal
	stock  int
	sold   int
	active bool
}

type voucherUserKey struct {
	voucherID uuid.UUID
	userID    uuid.UUID
}

type fakeOrderRepo struct {
	products      map[uuid.UUID]*fakeProduct
	voucherRemain map[uuid.UUID]int
	voucherUsed   map[voucherUserKey]bool
	orders        map[uuid.UUID]*model.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		products:      map[uuid.UUID]*fakeProduct{},
		voucherRemain: map[uuid.UUID]int{},
		voucherUsed:   map[voucherUserKey]bool{},
		orders:        map[uuid.UUID]*model.Order{},
	}
}

func cloneOrder(o *model.Order) *model.Order {
	c := *o
	c.Details = append([]model.OrderDetail(nil), o.Details...)
	if o.Payment != nil {
		p := *o.Payment
		c.Payment = &p
	}
	return &c
}

// snapshot trả về hàm khôi phục state, giả lập rollback
func (r *fakeOrderRepo) snapshot() func() {
	products := make(map[uuid.UUID]fakeProduct, len(r.products))
	for id, p := range r.products {
		products[id] = *p
	}
	remain := make(map[uuid.UUID]int, len(r.voucherRemain))
	for id, n := range r.voucherRemain {
		remain[id] = n
	}
	used := make(map[voucherUserKey]bool, len(r.voucherUsed))
	for k, v := range r.voucherUsed {
		used[k] = v
	}
	orders := make(map[uuid.UUID]*model.Order, len(r.orders))
	for id, o := range r.orders {
		orders[id] = cloneOrder(o)
	}

	return func() {
		r.products = map[uuid.UUID]*fakeProduct{}
		for id, p := range products {
			p := p
			r.products[id] = &p
		}
		r.voucherRemain = remain
		r.voucherUsed = used
		r.orders = orders
	}
}

func (r *fakeOrderRepo) WithTx(ctx context.Context, fn func(tx repository.TxRepository) error) error {
	restore := r.snapshot()
	if err := fn(&fakeTx{r: r}); err != nil {
		restore()
		return err
	}
	return nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *fakeOrderRepo) List(ctx context.Context, req model.ListOrdersRequest) ([]*model.Order, int64, error) {
	out := []*model.Order{}
	for _, o := range r.orders {
		if req.UserID != nil && o.UserID != *req.UserID {
			continue
		}
		if req.Status != "" && o.Status != req.Status {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) ListForExport(ctx context.Context, from, to time.Time, status model.OrderStatus) ([]*model.Order, error) {
	out := []*model.Order{}
	for _, o := range r.orders {
		if o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from []model.OrderStatus, to model.OrderStatus) error {
	return (&fakeTx{r: r}).UpdateStatus(ctx, id, from, to, nil)
}

func (r *fakeOrderRepo) RateDetail(ctx context.Context, userID, orderID, productID uuid.UUID, stars int, content *string) error {
	o, ok := r.orders[orderID]
	if !ok || o.UserID != userID || o.Status != model.OrderStatusCompleted {
		return model.ErrDetailNotRatable
	}
	for i := range o.Details {
		d := &o.Details[i]
		if d.ProductID == productID && d.RatingStar == nil {
			d.RatingStar = &stars
			d.RatingContent = content
			return nil
		}
	}
	return model.ErrDetailNotRatable
}

type fakeTx struct {
	r *fakeOrderRepo
}

func (t *fakeTx) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (*model.StockLine, error) {
	p, ok := t.r.products[productID]
	if !ok || !p.active {
		return nil, model.ErrProductNotFound
	}
	p.stock -= qty
	p.sold += qty
	return &model.StockLine{
		ProductID:       productID,
		Name:            p.name,
		Code:            p.code,
		ListedPrice:     p.listed,
		SalePrice:       p.sale,
		QuantityInStock: p.stock,
		Quantity:        qty,
	}, nil
}

func (t *fakeTx) RestoreStock(ctx context.Context, productID uuid.UUID, qty int) error {
	if p, ok := t.r.products[productID]; ok {
		p.stock += qty
		p.sold -= qty
		if p.sold < 0 {
			p.sold = 0
		}
	}
	return nil
}

func (t *fakeTx) RedeemVoucher(ctx context.Context, voucherID, userID uuid.UUID) error {
	key := voucherUserKey{voucherID, userID}
	if t.r.voucherRemain[voucherID] <= 0 || t.r.voucherUsed[key] {
		return model.ErrVoucherUnavailable
	}
	t.r.voucherRemain[voucherID]--
	t.r.voucherUsed[key] = true
	return nil
}

func (t *fakeTx) InsertOrder(ctx context.Context, o *model.Order) error {
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	for i := range o.Details {
		o.Details[i].ID = uuid.New()
		o.Details[i].OrderID = o.ID
	}
	o.Payment.ID = uuid.New()
	o.Payment.OrderID = o.ID
	t.r.orders[o.ID] = cloneOrder(o)
	return nil
}

func (t *fakeTx) FindForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return t.r.FindByID(ctx, id)
}

func (t *fakeTx) UpdateStatus(ctx context.Context, id uuid.UUID, from []model.OrderStatus, to model.OrderStatus, cancelReason *string) error {
	o, ok := t.r.orders[id]
	if !ok {
		return model.ErrStatusChanged
	}
	for _, s := range from {
		if o.Status == s {
			o.Status = to
			if cancelReason != nil {
				o.CancelReason = cancelReason
			}
			return nil
		}
	}
	return model.ErrStatusChanged
}

func (t *fakeTx) SetPaymentStatus(ctx context.Context, orderID uuid.UUID, status paymentModel.PaymentStatus) error {
	if o, ok := t.r.orders[orderID]; ok && o.Payment != nil {
		o.Payment.Status = status
	}
	return nil
}

type fakePayments struct {
	codes    map[uuid.UUID]string
	refunded map[uuid.UUID]string
}

func (p *fakePayments) SetPaymentCode(ctx context.Context, orderID uuid.UUID, code string) error {
	p.codes[orderID] = code
	return nil
}

func (p *fakePayments) MarkRefunded(ctx context.Context, orderID uuid.UUID, txnNo string) error {
	p.refunded[orderID] = txnNo
	return nil
}

type fakeVouchers struct {
	byCode map[string]*voucherModel.Voucher
}

func (f *fakeVouchers) ValidateForUser(ctx context.Context, code string, userID uuid.UUID, now time.Time) (*voucherModel.Voucher, error) {
	v, ok := f.byCode[code]
	if !ok {
		return nil, voucherModel.NewVoucherError(voucherModel.ErrCodeVoucherInvalid, voucherModel.MsgVoucherInvalid, nil)
	}
	return v, nil
}

type notification struct {
	userID uuid.UUID
	title  string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) NotifyUser(ctx context.Context, userID uuid.UUID, title, content, link string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{userID: userID, title: title})
	return nil
}

type recordingPublisher struct {
	types []string
}

func (p *recordingPublisher) Publish(ctx context.Context, e eventbus.Event) error {
	p.types = append(p.types, e.Type)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type recordingEnqueuer struct {
	tasks []string
}

func (e *recordingEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	e.tasks = append(e.tasks, task.Type())
	return &asynq.TaskInfo{ID: uuid.NewString(), Type: task.Type()}, nil
}

type recordingCart struct {
	removed map[uuid.UUID][]uuid.UUID
	err     error
}

func (c *recordingCart) RemoveItems(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) error {
	c.removed[userID] = productIDs
	return c.err
}

// =====================================================
// FIXTURE
// =====================================================

type fixture struct {
	svc       *orderService
	repo      *fakeOrderRepo
	payments  *fakePayments
	vouchers  *fakeVouchers
	gateway   *mock.Gateway
	notifier  *recordingNotifier
	publisher *recordingPublisher
	queue     *recordingEnqueuer
	cart      *recordingCart
	now       time.Time
}

func newFixture() *fixture {
	f := &fixture{
		repo:      newFakeOrderRepo(),
		payments:  &fakePayments{codes: map[uuid.UUID]string{}, refunded: map[uuid.UUID]string{}},
		vouchers:  &fakeVouchers{byCode: map[string]*voucherModel.Voucher{}},
		gateway:   mock.NewGateway(),
		notifier:  &recordingNotifier{},
		publisher: &recordingPublisher{},
		queue:     &recordingEnqueuer{},
		cart:      &recordingCart{removed: map[uuid.UUID][]uuid.UUID{}},
		now:       time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewOrderService(f.repo, f.payments, f.vouchers, f.gateway, f.notifier, f.publisher, f.queue, f.cart).(*orderService)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) addProduct(name string, sale int64, stock int) uuid.UUID {
	id := uuid.New()
	f.repo.products[id] = &fakeProduct{
		name:   name,
		code:   "PD" + strings.ToUpper(name),
		listed: decimal.NewFromInt(sale + 10000),
		sale:   decimal.NewFromInt(sale),
		stock:  stock,
		active: true,
	}
	return id
}

func (f *fixture) addVoucher(code string, unit voucherModel.VoucherUnit, value int64, maxDiscount, minOrder *decimal.Decimal) *voucherModel.Voucher {
	v := &voucherModel.Voucher{
		ID:             uuid.New(),
		Code:           code,
		Type:           voucherModel.VoucherTypeGeneral,
		Unit:           unit,
		Value:          decimal.NewFromInt(value),
		MaxDiscount:    maxDiscount,
		MinOrderPrice:  minOrder,
		RemainQuantity: 5,
	}
	f.vouchers.byCode[code] = v
	f.repo.voucherRemain[v.ID] = v.RemainQuantity
	return v
}

// seedOrder thêm order trực tiếp vào repo, bỏ qua CreateOrder
func (f *fixture) seedOrder(userID uuid.UUID, status model.OrderStatus, method paymentModel.PaymentMethod, payStatus paymentModel.PaymentStatus, productID uuid.UUID, qty int) *model.Order {
	o := &model.Order{
		ID:              uuid.New(),
		Code:            "OD" + strings.ToUpper(uuid.NewString()[:8]),
		UserID:          userID,
		Status:          status,
		OrderTotalPrice: decimal.NewFromInt(200000),
		OrderDiscount:   decimal.Zero,
		OrderFinalPrice: decimal.NewFromInt(200000),
		Details: []model.OrderDetail{{
			ID:          uuid.New(),
			ProductID:   productID,
			ProductCode: f.repo.products[productID].code,
			Quantity:    qty,
		}},
		Payment: &paymentModel.OrderPayment{
			ID:            uuid.New(),
			PaymentMethod: method,
			Status:        payStatus,
		},
		CreatedAt: f.now,
	}
	if payStatus == paymentModel.PaymentStatusCompleted && method == paymentModel.PaymentMethodOnline {
		ref := o.Code + "-20260510083000"
		txn := "14000001"
		o.Payment.PaymentCode = &ref
		o.Payment.TransactionNo = &txn
	}
	f.repo.orders[o.ID] = cloneOrder(o)
	return o
}

func orderRequest(method paymentModel.PaymentMethod, items ...model.OrderItemRequest) model.CreateOrderRequest {
	return model.CreateOrderRequest{
		Products:      items,
		PaymentMethod: method,
		ReceiverName:  "Nguyen Van A",
		OrderPhone:    "0912345678",
		OrderAddress:  "1 Trang Tien, Ha Noi",
	}
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr, "expected app error, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// =====================================================
// CREATE ORDER
// =====================================================

func TestCreateOrder_WithVoucher(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	productID := f.addProduct("ao", 100000, 5)
	v := f.addVoucher("SALE10", voucherModel.VoucherUnitPercent, 10, dec(15000), nil)

	req := orderRequest(paymentModel.PaymentMethodCOD, model.OrderItemRequest{ProductID: productID, Quantity: 2})
	req.VoucherCode = "SALE10"

	order, err := f.svc.CreateOrder(context.Background(), userID, req)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.Code, orderCodePrefix))
	assert.Len(t, order.Code, 16)
	assert.Equal(t, model.OrderStatusWaiting, order.Status)
	assert.Equal(t, "Home", order.OrderAddressType)
	assert.True(t, order.OrderTotalPrice.Equal(decimal.NewFromInt(200000)))
	assert.True(t, order.OrderDiscount.Equal(decimal.NewFromInt(15000)))
	assert.True(t, order.OrderFinalPrice.Equal(decimal.NewFromInt(185000)))
	require.NotNil(t, order.VoucherCode)
	assert.Equal(t, "SALE10", *order.VoucherCode)
	assert.Equal(t, paymentModel.PaymentStatusIncomplete, order.Payment.Status)

	require.Len(t, order.Details, 1)
	assert.True(t, order.Details[0].CurrentListedPrice.Equal(decimal.NewFromInt(110000)))

	p := f.repo.products[productID]
	assert.Equal(t, 3, p.stock)
	assert.Equal(t, 2, p.sold)
	assert.Equal(t, 4, f.repo.voucherRemain[v.ID])
	assert.True(t, f.repo.voucherUsed[voucherUserKey{v.ID, userID}])

	assert.Equal(t, []uuid.UUID{productID}, f.cart.removed[userID])
	assert.Equal(t, []string{shared.EventOrderCreated}, f.publisher.types)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, userID, f.notifier.sent[0].userID)
}

func TestCreateOrder_OnlineStartsWaiting(t *testing.T) {
	f := newFixture()
	productID := f.addProduct("quan", 50000, 1)

	order, err := f.svc.CreateOrder(context.Background(), uuid.New(),
		orderRequest(paymentModel.PaymentMethodOnline, model.OrderItemRequest{ProductID: productID, Quantity: 1}))
	require.NoError(t, err)

	assert.Equal(t, paymentModel.PaymentStatusWaiting, order.Payment.Status)
	assert.Nil(t, order.VoucherID)
	assert.True(t, order.OrderFinalPrice.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, 0, f.repo.products[productID].stock)
}

func TestCreateOrder_CartFailureDoesNotFail(t *testing.T) {
	f := newFixture()
	f.cart.err = errors.New("redis down")
	productID := f.addProduct("mu", 50000, 3)

	_, err := f.svc.CreateOrder(context.Background(), uuid.New(),
		orderRequest(paymentModel.PaymentMethodCOD, model.OrderItemRequest{ProductID: productID, Quantity: 1}))
	require.NoError(t, err)
	assert.Len(t, f.repo.orders, 1)
}

func TestCreateOrder_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		build    func(f *fixture) model.CreateOrderRequest
		wantCode string
		wantMsg  string
	}{
		{
			name: "duplicate products",
			build: func(f *fixture) model.CreateOrderRequest {
				id := f.addProduct("a", 100000, 10)
				return orderRequest(paymentModel.PaymentMethodCOD,
					model.OrderItemRequest{ProductID: id, Quantity: 1},
					model.OrderItemRequest{ProductID: id, Quantity: 2})
			},
			wantCode: model.ErrCodeDuplicateProducts,
			wantMsg:  "There are duplicate products",
		},
		{
			name: "insufficient stock on second line",
			build: func(f *fixture) model.CreateOrderRequest {
				a := f.addProduct("a", 100000, 10)
				b := f.addProduct("b", 100000, 1)
				return orderRequest(paymentModel.PaymentMethodCOD,
					model.OrderItemRequest{ProductID: a, Quantity: 2},
					model.OrderItemRequest{ProductID: b, Quantity: 3})
			},
			wantCode: model.ErrCodeInsufficientStock,
			wantMsg:  "does not have enough quantity in stock",
		},
		{
			name: "unknown product",
			build: func(f *fixture) model.CreateOrderRequest {
				return orderRequest(paymentModel.PaymentMethodCOD,
					model.OrderItemRequest{ProductID: uuid.New(), Quantity: 1})
			},
			wantCode: model.ErrCodeProductNotFound,
		},
		{
			name: "voucher not valid",
			build: func(f *fixture) model.CreateOrderRequest {
				id := f.addProduct("a", 100000, 10)
				req := orderRequest(paymentModel.PaymentMethodCOD, model.OrderItemRequest{ProductID: id, Quantity: 1})
				req.VoucherCode = "NOPE"
				return req
			},
			wantCode: model.ErrCodeVoucherInvalid,
			wantMsg:  "Voucher is not valid",
		},
		{
			name: "below voucher minimum",
			build: func(f *fixture) model.CreateOrderRequest {
				id := f.addProduct("a", 100000, 10)
				f.addVoucher("MIN", voucherModel.VoucherUnitMoney, 20000, nil, dec(500000))
				req := orderRequest(paymentModel.PaymentMethodCOD, model.OrderItemRequest{ProductID: id, Quantity: 2})
				req.VoucherCode = "MIN"
				return req
			},
			wantCode: model.ErrCodeMinOrderPrice,
			wantMsg:  "Order does not meet the minimum value of the voucher",
		},
		{
			name: "voucher on order below final price floor",
			build: func(f *fixture) model.CreateOrderRequest {
				id := f.addProduct("a", 8000, 10)
				f.addVoucher("TINY", voucherModel.VoucherUnitMoney, 1000, nil, nil)
				req := orderRequest(paymentModel.PaymentMethodCOD, model.OrderItemRequest{ProductID: id, Quantity: 1})
				req.VoucherCode = "TINY"
				return req
			},
			wantCode: model.ErrCodeVoucherInvalid,
			wantMsg:  "Voucher is not valid",
		},
		{
			name: "invalid payload",
			build: func(f *fixture) model.CreateOrderRequest {
				return orderRequest(paymentModel.PaymentMethodCOD)
			},
			wantCode: model.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := tt.build(f)

			before := map[uuid.UUID]int{}
			for id, p := range f.repo.products {
				before[id] = p.stock
			}

			_, err := f.svc.CreateOrder(context.Background(), uuid.New(), req)
			requireCode(t, err, tt.wantCode)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}

			// rollback: kho giữ nguyên, không có order
			for id, p := range f.repo.products {
				assert.Equal(t, before[id], p.stock)
			}
			assert.Empty(t, f.repo.orders)
			assert.Empty(t, f.publisher.types)
		})
	}
}

// =====================================================
// LIFECYCLE
// =====================================================

func TestConfirm(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	productID := f.addProduct("a", 100000, 10)

	unpaid := f.seedOrder(userID, model.OrderStatusWaiting, paymentModel.PaymentMethodOnline, paymentModel.PaymentStatusWaiting, productID, 1)
	_, err := f.svc.Confirm(context.Background(), unpaid.ID)
	requireCode(t, err, model.ErrCodeNotPaidOnline)
	assert.Equal(t, model.OrderStatusWaiting, f.repo.orders[unpaid.ID].Status)

	cod := f.seedOrder(userID, model.OrderStatusWaiting, paymentModel.PaymentMethodCOD, paymentModel.PaymentStatusIncomplete, productID, 1)
	order, err := f.svc.Confirm(context.Background(), cod.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, order.Status)
	assert.Equal(t, model.OrderStatusConfirmed, f.repo.orders[cod.ID].Status)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "Cập nhật trạng thái đơn hàng #"+cod.Code, f.notifier.sent[0].title)
	assert.Equal(t, []string{shared.TypeOrderStatusEmail}, f.queue.tasks)
	assert.Equal(t, []string{shared.EventOrderStatusChanged}, f.publisher.types)
}

func TestTransitions_InvalidSource(t *testing.T) {
	f := newFixture()
	productID := f.addProduct("a", 100000, 10)
	o := f.seedOrder(uuid.New(), model.OrderStatusWaiting, paymentModel.PaymentMethodCOD, paymentModel.PaymentStatusIncomplete, productID, 1)

	_, err := f.svc.Ship(context.Background(), o.ID)
	requireCode(t, err, model.ErrCodeInvalidStatus)

	_, err = f.svc.Unclaim(context.Background(), o.ID)
	requireCode(t, err, model.ErrCodeInvalidStatus)

	_, err = f.svc.Complete(context.Background(), o.ID)
	requireCode(t, err, model.ErrCodeInvalidStatus)

	_, err = f.svc.Ship(context.Background(), uuid.New())
	requireCode(t, err, model.ErrCodeOrderNotFound)

	assert.Empty(t, f.notifier.sent)
}

func TestComplete_MarksPaymentCompleted(t *testing.T) {
	f := newFixture()
	productID := f.addProduct("a", 100000, 10)
	o := f.seedOrder(uuid.New(), model.OrderStatusUnclaimed, paymentModel.PaymentMethodCOD, paymentModel.PaymentStatusIncomplete, productID, 1)

	order, err := f.svc.Complete(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCompleted, order.Status)
	assert.Equal(t, paymentModel.PaymentStatusCompleted, f.repo.orders[o.ID].Payment.Status)
}

// =====================================================
// CANCEL
// =====================================================

func TestCancelMyOrder(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	productID := f.addProduct("a", 100000, 10)

	waiting := f.seedOrder(owner, model.OrderStatusWaiting, paymentModel.PaymentMethodOnline, paymentModel.PaymentStatusWaiting, productID, 3)
	confirmed := f.seedOrder(owner, model.OrderStatusConfirmed, paymentModel.PaymentMethodCOD, paymentModel.PaymentStatusIncomplete, productID, 1)

	_, err := f.svc.CancelMyOrder(context.Background(), uuid.New(), waiting.ID, "127.0.0.1")
	requireCode(t, err, model.ErrCodeOrderNotFound)

	_, err = f.svc.CancelMyOrder(context.Background(), owner, confirmed.ID, "127.0.0.1")
	requireCode(t, err, model.ErrCodeCannotCancel)
	assert.Contains(t, err.Error(), "You cannot cancel a confirmed order")

	res, err := f.svc.CancelMyOrder(context.Background(), owner, waiting.ID, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "Cancel order #"+waiting.Code+" successfully", res.Message)
	assert.False(t, res.Refunded)

	stored := f.repo.orders[waiting.ID]
	assert.Equal(t, model.OrderStatusCanceled, stored.Status)
	assert.Equal(t, paymentModel.PaymentStatusIncomplete, stored.Payment.Status)
	assert.Equal(t, 13, f.repo.products[productID].stock)
	assert.Equal(t, 0, f.gateway.RefundCount())
}

func TestAdminCancel_PaidOnline(t *testing.T) {
	tests := []struct {
		name         string
		failRefund   bool
		refundErr    error
		wantRefunded bool
		wantSuffix   string
		wantPayment  paymentModel.PaymentStatus
	}{
		{
			name:         "refund success",
			wantRefunded: true,
			wantSuffix:   "successfully",
			wantPayment:  paymentModel.PaymentStatusCompleted,
		},
		{
			name:        "gateway rejects refund",
			failRefund:  true,
			wantSuffix:  "successfully but refund failed",
			wantPayment: paymentModel.PaymentStatusCompleted,
		},
		{
			name:        "gateway unreachable",
			refundErr:   errors.New("timeout"),
			wantSuffix:  "successfully but refund failed",
			wantPayment: paymentModel.PaymentStatusCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.gateway.SetFailRefund(tt.failRefund)
			f.gateway.SetRefundError(tt.refundErr)
			productID := f.addProduct("a", 100000, 0)
			o := f.seedOrder(uuid.New(), model.OrderStatusShipping, paymentModel.PaymentMethodOnline, paymentModel.PaymentStatusCompleted, productID, 2)

			res, err := f.svc.AdminCancel(context.Background(), uuid.New(), o.ID, model.AdminCancelRequest{Reason: "Hết hàng"}, "10.0.0.1")
			require.NoError(t, err)

			assert.Equal(t, tt.wantRefunded, res.Refunded)
			assert.True(t, strings.HasSuffix(res.Message, tt.wantSuffix), res.Message)
			if tt.wantRefunded {
				assert.Equal(t, "Cancel and refund order #"+o.Code+" successfully", res.Message)
				assert.Contains(t, f.payments.refunded, o.ID)
				assert.Contains(t, f.publisher.types, shared.EventOrderRefunded)
			} else {
				assert.NotContains(t, f.payments.refunded, o.ID)
			}

			stored := f.repo.orders[o.ID]
			assert.Equal(t, model.OrderStatusCanceled, stored.Status)
			require.NotNil(t, stored.CancelReason)
			assert.Equal(t, "Hết hàng", *stored.CancelReason)
			// fake payments store không đổi status trong repo, chỉ ghi nhận MarkRefunded
			assert.Equal(t, tt.wantPayment, stored.Payment.Status)
			assert.Equal(t, 2, f.repo.products[productID].stock)

			require.Equal(t, 1, f.gateway.RefundCount())
			refund := f.gateway.Refunds[0]
			assert.Equal(t, o.Code+"-20260510083000", refund.TxnRef)
			assert.Equal(t, "14000001", refund.TransactionNo)
			assert.True(t, refund.Amount.Equal(o.OrderFinalPrice))
		})
	}
}

func TestAdminCancel_NotCancelable(t *testing.T) {
	f := newFixture()
	productID := f.addProduct("a", 100000, 0)

	for _, status := range []model.OrderStatus{model.OrderStatusCompleted, model.OrderStatusCanceled} {
		o := f.seedOrder(uuid.New(), status, paymentModel.PaymentMethodCOD, paymentModel.PaymentStatusIncomplete, productID, 1)
		_, err := f.svc.AdminCancel(context.Background(), uuid.New(), o.ID, model.AdminCancelRequest{}, "")
		requireCode(t, err, model.ErrCodeCannotCancel)
	}
	assert.Equal(t, 0, f.repo.products[productID].stock)
}

// =====================================================
// PAY ONLINE / RATING / EXPORT
// =====================================================

func TestPayOnline(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	productID := f.addProduct("a", 100000, 10)

	cod := f.seedOrder(owner, model.OrderStatusWaiting, paymentModel.PaymentMethodCOD, paymentModel.PaymentStatusIncomplete, productID, 1)
	_, err := f.svc.PayOnline(context.Background(), owner, cod.ID, "127.0.0.1")
	requireCode(t, err, model.ErrCodeOrderNotFound)
	assert.Contains(t, err.Error(), "No order found to pay online")

	online := f.seedOrder(owner, model.OrderStatusWaiting, paymentModel.PaymentMethodOnline, paymentModel.PaymentStatusWaiting, productID, 1)
	_, err = f.svc.PayOnline(context.Background(), uuid.New(), online.ID, "127.0.0.1")
	requireCode(t, err, model.ErrCodeOrderNotFound)

	res, err := f.svc.PayOnline(context.Background(), owner, online.ID, "127.0.0.1")
	require.NoError(t, err)
	assert.Contains(t, res.PaymentURL, online.Code)
	assert.Equal(t, online.Code+"-20260510090000", f.payments.codes[online.ID])
	assert.Equal(t, f.now.Add(15*time.Minute), res.ExpiresAt)

	f.gateway.SetFailPayment(true)
	_, err = f.svc.PayOnline(context.Background(), owner, online.ID, "127.0.0.1")
	requireCode(t, err, model.ErrCodePaymentUnavailable)
}

func TestRateOrderDetail(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	productID := f.addProduct("a", 100000, 10)

	shipping := f.seedOrder(owner, model.OrderStatusShipping, paymentModel.PaymentMethodCOD, paymentModel.PaymentStatusIncomplete, productID, 1)
	err := f.svc.RateOrderDetail(context.Background(), owner, shipping.ID, model.RatingRequest{ProductID: productID, Stars: 5})
	requireCode(t, err, model.ErrCodeRatingNotAllowed)

	done := f.seedOrder(owner, model.OrderStatusCompleted, paymentModel.PaymentMethodCOD, paymentModel.PaymentStatusCompleted, productID, 1)
	require.NoError(t, f.svc.RateOrderDetail(context.Background(), owner, done.ID, model.RatingRequest{ProductID: productID, Stars: 4}))

	// đã đánh giá thì không được đánh giá lại
	err = f.svc.RateOrderDetail(context.Background(), owner, done.ID, model.RatingRequest{ProductID: productID, Stars: 1})
	requireCode(t, err, model.ErrCodeRatingNotAllowed)

	err = f.svc.RateOrderDetail(context.Background(), owner, done.ID, model.RatingRequest{ProductID: productID, Stars: 6})
	requireCode(t, err, model.ErrCodeInvalidInput)
}

func TestGetMyOrder_HidesOtherUsersOrders(t *testing.T) {
	f := newFixture()
	productID := f.addProduct("a", 100000, 10)
	o := f.seedOrder(uuid.New(), model.OrderStatusWaiting, paymentModel.PaymentMethodCOD, paymentModel.PaymentStatusIncomplete, productID, 1)

	_, err := f.svc.GetMyOrder(context.Background(), uuid.New(), o.ID)
	requireCode(t, err, model.ErrCodeOrderNotFound)

	got, err := f.svc.GetMyOrder(context.Background(), o.UserID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Code, got.Code)
}

func TestExportOrders(t *testing.T) {
	f := newFixture()
	productID := f.addProduct("a", 100000, 10)
	o := f.seedOrder(uuid.New(), model.OrderStatusWaiting, paymentModel.PaymentMethodCOD, paymentModel.PaymentStatusIncomplete, productID, 2)

	day := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	data, err := f.svc.ExportOrders(context.Background(), model.ExportOrdersRequest{From: day, To: day})
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, o.Code, rows[1][0])
	assert.Equal(t, "COD", rows[1][6])
	assert.Equal(t, "PDA x2", rows[1][12])

	_, err = f.svc.ExportOrders(context.Background(), model.ExportOrdersRequest{From: day, To: day.AddDate(0, 0, -1)})
	requireCode(t, err, model.ErrCodeInvalidInput)
}
