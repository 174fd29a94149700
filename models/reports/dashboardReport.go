package reports

import (
	"context"

	"bitbucket.org/mmdatafocus/udhaar_pos/catalog"
	"bitbucket.org/mmdatafocus/udhaar_pos/models"
	"github.com/shopspring/decimal"
)

type DashboardResponse struct {
	ProductCount     int               `json:"product_count"`
	TotalStock       int               `json:"total_stock"`
	LowStockItems    []*models.Product `json:"low_stock_items"`
	CustomerCount    int               `json:"customer_count"`
	TotalUdhaar      decimal.Decimal   `json:"total_udhaar"`
	CustomersOwing   int               `json:"customers_owing"`
	SalesCount       int               `json:"sales_count"`
	Revenue          decimal.Decimal   `json:"revenue"`
	CreditSalesTotal decimal.Decimal   `json:"credit_sales_total"`
}

func BuildDashboard(products []*models.Product, customers []*models.Customer, sales []models.Sale) DashboardResponse {
	resp := DashboardResponse{
		ProductCount:  len(products),
		LowStockItems: catalog.FilterLowStock(products),
		CustomerCount: len(customers),
	}
	for _, p := range products {
		resp.TotalStock += p.Stock
	}
	for _, c := range customers {
		resp.TotalUdhaar = resp.TotalUdhaar.Add(c.Udhaar)
		if c.OwesCredit() {
			resp.CustomersOwing++
		}
	}
	summary := SummarizeSales(sales)
	resp.SalesCount = summary.SalesCount
	resp.Revenue = summary.Revenue
	resp.CreditSalesTotal = summary.CreditSales
	return resp
}

// GetDashboard reads the current catalog and combines it with the journal's sales.
func GetDashboard(ctx context.Context, m catalog.Manager, journal *SaleJournal) (*DashboardResponse, error) {
	products, err := m.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := m.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	var sales []models.Sale
	if journal != nil {
		sales = journal.Sales()
	}
	resp := BuildDashboard(products, customers, sales)
	return &resp, nil
}
