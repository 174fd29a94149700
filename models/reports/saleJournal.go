package reports

import (
	"context"
	"sync"

	"bitbucket.org/mmdatafocus/udhaar_pos/models"
	"github.com/shopspring/decimal"
)

// SaleJournal keeps completed sales in memory for the session. It is
// subscribed to the sale finalizer as a listener.
type SaleJournal struct {
	mu    sync.RWMutex
	sales []models.Sale
}

func NewSaleJournal() *SaleJournal {
	return &SaleJournal{}
}

func (j *SaleJournal) OnSaleCompleted(_ context.Context, sale models.Sale) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.sales = append(j.sales, sale.Clone())
	return nil
}

// Sales returns the recorded sales, oldest first.
func (j *SaleJournal) Sales() []models.Sale {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]models.Sale, len(j.sales))
	for i, s := range j.sales {
		out[i] = s.Clone()
	}
	return out
}

type SalesSummary struct {
	SalesCount   int             `json:"sales_count"`
	Revenue      decimal.Decimal `json:"revenue"`
	CreditSales  decimal.Decimal `json:"credit_sales"`
	CashSales    decimal.Decimal `json:"cash_sales"`
	TaxCollected decimal.Decimal `json:"tax_collected"`
}

func SummarizeSales(sales []models.Sale) SalesSummary {
	summary := SalesSummary{SalesCount: len(sales)}
	for _, s := range sales {
		summary.Revenue = summary.Revenue.Add(s.Total)
		summary.TaxCollected = summary.TaxCollected.Add(s.TaxAmount)
		if s.PaymentMode == models.PaymentModeCredit {
			summary.CreditSales = summary.CreditSales.Add(s.Total)
		} else {
			summary.CashSales = summary.CashSales.Add(s.Total)
		}
	}
	return summary
}

func (j *SaleJournal) Summary() SalesSummary {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return SummarizeSales(j.sales)
}
