// Package cart keeps the in-progress sale for one operator and derives its bill.
package cart

import (
	"context"
	"slices"

	"bitbucket.org/mmdatafocus/udhaar_pos/catalog"
	"bitbucket.org/mmdatafocus/udhaar_pos/config"
	"bitbucket.org/mmdatafocus/udhaar_pos/models"
	"bitbucket.org/mmdatafocus/udhaar_pos/utils"
	"github.com/shopspring/decimal"
)

const EntityCartLine = "cart line"

var (
	minDiscountPercent = decimal.Zero
	maxDiscountPercent = decimal.NewFromInt(100)
)

type Config struct {
	DefaultTaxPercent decimal.Decimal
	// ZeroQuantityRemovesLine makes SetQuantity(id, 0) remove the line instead of failing.
	ZeroQuantityRemovesLine bool
}

func ConfigFromSettings(s config.Settings) Config {
	return Config{
		DefaultTaxPercent:       s.DefaultTaxPercent,
		ZeroQuantityRemovesLine: config.ZeroQuantityRemovesLine(),
	}
}

// Line is one product in the cart. UnitPrice is captured when the product is
// first added and does not follow later catalog price changes.
type Line struct {
	ProductId string          `json:"product_id"`
	Name      string          `json:"name"`
	Sku       string          `json:"sku"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

func (l Line) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Engine owns one cart. It is meant for a single operator and is not safe for
// concurrent use. A failed operation never changes the cart.
type Engine struct {
	catalog         catalog.Reader
	cfg             Config
	lines           []*Line
	customerId      string
	discountPercent decimal.Decimal
	taxPercent      decimal.Decimal
}

func NewEngine(reader catalog.Reader, cfg Config) *Engine {
	if cfg.DefaultTaxPercent.IsNegative() {
		cfg.DefaultTaxPercent = decimal.Zero
	}
	e := &Engine{catalog: reader, cfg: cfg}
	e.Clear()
	return e
}

func (e *Engine) indexOf(productId string) int {
	return slices.IndexFunc(e.lines, func(l *Line) bool { return l.ProductId == productId })
}

// AddLine adds one unit of product. An existing line keeps its captured price.
// Stock is not checked here; checkout validates it.
func (e *Engine) AddLine(product *models.Product) error {
	if product == nil {
		return models.NewNotFound(models.EntityProduct, "")
	}
	if i := e.indexOf(product.ID); i >= 0 {
		e.lines[i].Quantity++
		return nil
	}
	if product.Price.IsNegative() {
		return models.ErrInvalidPrice
	}
	e.lines = append(e.lines, &Line{
		ProductId: product.ID,
		Name:      product.Name,
		Sku:       product.Sku,
		UnitPrice: product.Price,
		Quantity:  1,
	})
	return nil
}

// AddProduct looks productId up in the catalog and adds one unit of it.
func (e *Engine) AddProduct(ctx context.Context, productId string) error {
	p, err := e.catalog.GetProduct(ctx, productId)
	if err != nil {
		return err
	}
	return e.AddLine(p)
}

// RemoveLine is a no-op for products not in the cart.
func (e *Engine) RemoveLine(productId string) {
	if i := e.indexOf(productId); i >= 0 {
		e.lines = slices.Delete(e.lines, i, i+1)
	}
}

func (e *Engine) SetQuantity(productId string, quantity int) error {
	if quantity < 0 || (quantity == 0 && !e.cfg.ZeroQuantityRemovesLine) {
		return models.ErrInvalidQuantity
	}
	i := e.indexOf(productId)
	if i < 0 {
		return models.NewNotFound(EntityCartLine, productId)
	}
	if quantity == 0 {
		e.lines = slices.Delete(e.lines, i, i+1)
		return nil
	}
	e.lines[i].Quantity = quantity
	return nil
}

// Clear empties the cart, resets discount to 0 and tax to the configured
// default, and returns to a walk-in sale.
func (e *Engine) Clear() {
	e.lines = nil
	e.customerId = ""
	e.discountPercent = decimal.Zero
	e.taxPercent = e.cfg.DefaultTaxPercent
}

func (e *Engine) SetDiscountPercent(pct decimal.Decimal) error {
	if !utils.IsPercentInRange(pct, minDiscountPercent, maxDiscountPercent) {
		return models.ErrInvalidPercent
	}
	e.discountPercent = pct
	return nil
}

// SetTaxPercent accepts any non-negative rate; there is no upper bound.
func (e *Engine) SetTaxPercent(pct decimal.Decimal) error {
	if pct.IsNegative() {
		return models.ErrInvalidPercent
	}
	e.taxPercent = pct
	return nil
}

func (e *Engine) SelectCustomer(ctx context.Context, customerId string) error {
	c, err := e.catalog.GetCustomer(ctx, customerId)
	if err != nil {
		return err
	}
	e.customerId = c.ID
	return nil
}

func (e *Engine) ClearCustomer() {
	e.customerId = ""
}

func (e *Engine) ComputeTotals() Totals {
	return CalculateTotals(e.Lines(), e.discountPercent, e.taxPercent)
}

// Lines returns a copy of the cart lines in insertion order.
func (e *Engine) Lines() []Line {
	out := make([]Line, len(e.lines))
	for i, l := range e.lines {
		out[i] = *l
	}
	return out
}

func (e *Engine) Line(productId string) (Line, bool) {
	if i := e.indexOf(productId); i >= 0 {
		return *e.lines[i], true
	}
	return Line{}, false
}

func (e *Engine) Len() int {
	return len(e.lines)
}

func (e *Engine) IsEmpty() bool {
	return len(e.lines) == 0
}

// CustomerID is empty for a walk-in sale.
func (e *Engine) CustomerID() string {
	return e.customerId
}

func (e *Engine) DiscountPercent() decimal.Decimal {
	return e.discountPercent
}

func (e *Engine) TaxPercent() decimal.Decimal {
	return e.taxPercent
}
