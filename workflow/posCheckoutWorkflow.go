// Package workflow turns a cart into a completed sale.
package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"bitbucket.org/mmdatafocus/udhaar_pos/appctx"
	"bitbucket.org/mmdatafocus/udhaar_pos/cart"
	"bitbucket.org/mmdatafocus/udhaar_pos/catalog"
	"bitbucket.org/mmdatafocus/udhaar_pos/config"
	"bitbucket.org/mmdatafocus/udhaar_pos/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("udhaar-pos")

// Cart is what checkout needs from a cart. *cart.Engine satisfies it.
type Cart interface {
	Lines() []cart.Line
	CustomerID() string
	ComputeTotals() cart.Totals
	Clear()
}

type CheckoutOptions struct {
	// OnCredit adds the sale total to the selected customer's udhaar.
	// It is ignored for walk-in sales.
	OnCredit bool
}

// SaleListener is told about every completed sale. Errors are logged only;
// the sale stands.
type SaleListener interface {
	OnSaleCompleted(ctx context.Context, sale models.Sale) error
}

type SaleListenerFunc func(ctx context.Context, sale models.Sale) error

func (fn SaleListenerFunc) OnSaleCompleted(ctx context.Context, sale models.Sale) error {
	return fn(ctx, sale)
}

type SaleFinalizer struct {
	store  catalog.Store
	locker catalog.Locker
	logger *logrus.Logger
	now    func() time.Time

	mu        sync.RWMutex
	listeners []SaleListener
}

// NewSaleFinalizer uses an in-process LocalLocker when locker is nil.
func NewSaleFinalizer(store catalog.Store, locker catalog.Locker) *SaleFinalizer {
	if locker == nil {
		locker = catalog.NewLocalLocker()
	}
	return &SaleFinalizer{
		store:  store,
		locker: locker,
		logger: config.GetLogger(),
		now:    time.Now,
	}
}

// WithClock replaces the time source used for Sale.CreatedAt.
func (f *SaleFinalizer) WithClock(now func() time.Time) *SaleFinalizer {
	f.now = now
	return f
}

func (f *SaleFinalizer) Subscribe(l SaleListener) {
	if l == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, l)
}

// Checkout validates stock for every line, applies all stock decrements and
// the optional credit as one unit, records the sale and clears the cart.
// On any error the catalog and the cart are left as they were.
func (f *SaleFinalizer) Checkout(ctx context.Context, c Cart, opts CheckoutOptions) (*models.Sale, error) {
	ctx, span := tracer.Start(ctx, "SaleFinalizer.Checkout")
	defer span.End()

	sale, err := f.commit(ctx, c, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("sale.id", sale.ID),
		attribute.String("sale.payment_mode", string(sale.PaymentMode)),
		attribute.Int("sale.lines", len(sale.Lines)),
	)
	if terminal, ok := appctx.TerminalId(ctx); ok {
		span.SetAttributes(attribute.String("pos.terminal_id", terminal))
	}

	// listeners without a caller-supplied correlation id get the sale id
	if _, ok := appctx.CorrelationId(ctx); !ok {
		ctx = appctx.WithCorrelationId(ctx, sale.ID)
	}
	f.notify(ctx, sale)
	return &sale, nil
}

func (f *SaleFinalizer) commit(ctx context.Context, c Cart, opts CheckoutOptions) (models.Sale, error) {
	lines := c.Lines()
	if len(lines) == 0 {
		return models.Sale{}, models.ErrEmptyCart
	}

	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductId
	}
	unlock, err := f.locker.Lock(ctx, ids)
	if err != nil {
		config.LogError(f.logger, "posCheckoutWorkflow.go", "Checkout", "Lock products", ids, err)
		return models.Sale{}, err
	}
	defer unlock()

	if err := f.checkStock(ctx, lines); err != nil {
		return models.Sale{}, err
	}

	totals := c.ComputeTotals()
	customerId := c.CustomerID()
	onCredit := opts.OnCredit && customerId != ""

	if err := f.applyWrites(ctx, lines, customerId, onCredit, totals.Total); err != nil {
		config.LogError(f.logger, "posCheckoutWorkflow.go", "Checkout", "Apply sale writes", ids, err)
		return models.Sale{}, err
	}

	sale := newSale(uuid.NewString(), customerId, onCredit, lines, totals, f.now())
	c.Clear()
	return sale, nil
}

// checkStock re-reads every product under lock. Prices are not re-read; the
// cart keeps the price captured when the line was added.
func (f *SaleFinalizer) checkStock(ctx context.Context, lines []cart.Line) error {
	for _, l := range lines {
		p, err := f.store.GetProduct(ctx, l.ProductId)
		if err != nil {
			return err
		}
		if p.Stock < l.Quantity {
			return models.NewInsufficientStock(l.ProductId, p.Stock, l.Quantity)
		}
	}
	return nil
}

func (f *SaleFinalizer) applyWrites(ctx context.Context, lines []cart.Line, customerId string, onCredit bool, total decimal.Decimal) error {
	if tx, ok := f.store.(catalog.Transactor); ok {
		return tx.Transact(ctx, func(w catalog.Writer) error {
			for _, l := range lines {
				if err := w.DecrementStock(ctx, l.ProductId, l.Quantity); err != nil {
					return err
				}
			}
			if onCredit {
				return w.IncreaseCredit(ctx, customerId, total)
			}
			return nil
		})
	}

	done := make([]cart.Line, 0, len(lines))
	for _, l := range lines {
		if err := f.store.DecrementStock(ctx, l.ProductId, l.Quantity); err != nil {
			f.restore(done)
			return err
		}
		done = append(done, l)
	}
	if onCredit {
		if err := f.store.IncreaseCredit(ctx, customerId, total); err != nil {
			f.restore(done)
			return err
		}
	}
	return nil
}

// restore undoes applied decrements in reverse order. It runs on a fresh
// context so a cancelled checkout still gives its stock back.
func (f *SaleFinalizer) restore(done []cart.Line) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for i := len(done) - 1; i >= 0; i-- {
		l := done[i]
		if err := f.store.RestoreStock(ctx, l.ProductId, l.Quantity); err != nil {
			config.LogError(f.logger, "posCheckoutWorkflow.go", "restore", "RestoreStock", l, err)
		}
	}
}

func (f *SaleFinalizer) notify(ctx context.Context, sale models.Sale) {
	f.mu.RLock()
	listeners := append([]SaleListener(nil), f.listeners...)
	f.mu.RUnlock()

	for _, l := range listeners {
		if err := safeNotify(ctx, l, sale.Clone()); err != nil {
			config.LogError(f.logger, "posCheckoutWorkflow.go", "notify", "OnSaleCompleted", sale.ID, err)
		}
	}
}

func safeNotify(ctx context.Context, l SaleListener, sale models.Sale) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("sale listener panicked")
			trace.SpanFromContext(ctx).AddEvent("listener panic")
		}
	}()
	return l.OnSaleCompleted(ctx, sale)
}

func newSale(id, customerId string, onCredit bool, lines []cart.Line, totals cart.Totals, at time.Time) models.Sale {
	mode := models.PaymentModeCash
	if onCredit {
		mode = models.PaymentModeCredit
	}
	saleLines := make([]models.SaleLine, len(lines))
	for i, l := range lines {
		saleLines[i] = models.SaleLine{
			ProductId: l.ProductId,
			Name:      l.Name,
			Sku:       l.Sku,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Amount:    l.Amount(),
		}
	}
	return models.Sale{
		ID:              id,
		CustomerId:      customerId,
		PaymentMode:     mode,
		Lines:           saleLines,
		Subtotal:        totals.Subtotal,
		DiscountPercent: totals.DiscountPercent,
		DiscountAmount:  totals.DiscountAmount,
		TaxPercent:      totals.TaxPercent,
		TaxAmount:       totals.TaxAmount,
		Total:           totals.Total,
		CreatedAt:       at,
	}
}
