package reports

import (
	"fmt"
	"io"

	"bitbucket.org/mmdatafocus/udhaar_pos/models"
	"github.com/xuri/excelize/v2"
)

const (
	SalesSheet    = "Sales"
	LowStockSheet = "Low Stock"
)

// ExcelExporter is one spreadsheet row.
type ExcelExporter interface {
	GetCellValues() []interface{}
}

type saleRow struct {
	sale models.Sale
}

func (r saleRow) GetCellValues() []interface{} {
	customer := r.sale.CustomerId
	if r.sale.IsWalkIn() {
		customer = "Walk-in"
	}
	return []interface{}{
		r.sale.ID,
		r.sale.CreatedAt.Format("2006-01-02 15:04:05"),
		customer,
		string(r.sale.PaymentMode),
		r.sale.ItemCount(),
		r.sale.Subtotal.InexactFloat64(),
		r.sale.DiscountAmount.InexactFloat64(),
		r.sale.TaxAmount.InexactFloat64(),
		r.sale.Total.InexactFloat64(),
	}
}

type lowStockRow struct {
	product *models.Product
}

func (r lowStockRow) GetCellValues() []interface{} {
	return []interface{}{
		r.product.Sku,
		r.product.Name,
		r.product.Category,
		r.product.Stock,
		r.product.LowStockThreshold,
	}
}

// ExportSales writes one row per sale as an .xlsx workbook.
func ExportSales(w io.Writer, sales []models.Sale) error {
	rows := make([]ExcelExporter, len(sales))
	for i, s := range sales {
		rows[i] = saleRow{sale: s}
	}
	return exportExcel(w, SalesSheet, rows,
		"SaleId", "Date", "Customer", "PaymentMode", "Items", "Subtotal", "Discount", "Tax", "Total")
}

// ExportLowStock writes the given products as an .xlsx reorder sheet.
func ExportLowStock(w io.Writer, products []*models.Product) error {
	rows := make([]ExcelExporter, len(products))
	for i, p := range products {
		rows[i] = lowStockRow{product: p}
	}
	return exportExcel(w, LowStockSheet, rows,
		"Sku", "Name", "Category", "Stock", "Threshold")
}

func exportExcel(w io.Writer, sheetName string, data []ExcelExporter, headings ...string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	// Add headers
	for i, h := range headings {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}

	// Add data
	for r, d := range data {
		for c, value := range d.GetCellValues() {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("row %d: %w", r+1, err)
			}
		}
	}

	return f.Write(w)
}
