package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"bitbucket.org/mmdatafocus/udhaar_pos/cart"
	"bitbucket.org/mmdatafocus/udhaar_pos/catalog"
	"bitbucket.org/mmdatafocus/udhaar_pos/config"
	"bitbucket.org/mmdatafocus/udhaar_pos/models"
	"bitbucket.org/mmdatafocus/udhaar_pos/models/reports"
	"bitbucket.org/mmdatafocus/udhaar_pos/utils"
	"bitbucket.org/mmdatafocus/udhaar_pos/workflow"
	"github.com/sirupsen/logrus"
)

var errQuit = errors.New("quit")

const helpText = `commands:
  products [query]            list products, optionally filtered by name/sku/category/barcode
  lowstock                    list products at or below their threshold
  add <productId> [qty]       add a product to the cart
  scan <barcode>              add the product with this barcode
  qty <productId> <qty>       set a line quantity
  rm <productId>              remove a line
  discount <pct>              set cart discount percent (0-100)
  tax <pct>                   set cart tax percent
  customers                   list customers and their udhaar
  newcustomer <phone> <name>  register a customer
  customer <customerId>       attach a customer to the sale
  walkin                      detach the customer
  cart                        show lines and totals
  clear                       empty the cart
  checkout [credit]           finalize the sale; credit adds the total to udhaar
  settle <customerId> <amt>   record an udhaar repayment
  restock <productId> <qty>   receive stock
  dashboard                   shop summary
  export sales|lowstock <file.xlsx>
  help
  quit`

type console struct {
	store     catalog.Catalog
	engine    *cart.Engine
	finalizer *workflow.SaleFinalizer
	journal   *reports.SaleJournal
	in        io.Reader
	out       io.Writer
	logger    *logrus.Logger
}

func newConsole(store catalog.Catalog, locker catalog.Locker, settings config.Settings, in io.Reader, out io.Writer) *console {
	c := &console{
		store:     store,
		engine:    cart.NewEngine(store, cart.ConfigFromSettings(settings)),
		finalizer: workflow.NewSaleFinalizer(store, locker),
		journal:   reports.NewSaleJournal(),
		in:        in,
		out:       out,
		logger:    config.GetLogger(),
	}
	c.finalizer.Subscribe(c.journal)
	return c
}

// Run reads commands line by line until quit, EOF or ctx is cancelled.
func (c *console) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(c.in)
	fmt.Fprintln(c.out, "udhaar POS. Type help for commands.")
	for {
		fmt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		err := c.exec(ctx, strings.Fields(scanner.Text()))
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(c.out, "error: %s\n", describe(err))
		}
	}
}

func (c *console) exec(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "help", "?":
		fmt.Fprintln(c.out, helpText)
		return nil
	case "quit", "exit":
		return errQuit
	case "products":
		return c.listProducts(ctx, strings.Join(args, " "))
	case "lowstock":
		products, err := catalog.LowStockProducts(ctx, c.store)
		if err != nil {
			return err
		}
		c.printProducts(products)
		return nil
	case "add":
		return c.add(ctx, args)
	case "scan":
		if len(args) != 1 {
			return usage("scan <barcode>")
		}
		p, err := catalog.FindByBarcode(ctx, c.store, args[0])
		if err != nil {
			return err
		}
		if err := c.engine.AddLine(p); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "added %s\n", p.Name)
		return nil
	case "qty":
		if len(args) != 2 {
			return usage("qty <productId> <qty>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return models.ErrInvalidQuantity
		}
		return c.engine.SetQuantity(args[0], n)
	case "rm":
		if len(args) != 1 {
			return usage("rm <productId>")
		}
		c.engine.RemoveLine(args[0])
		return nil
	case "discount", "tax":
		if len(args) != 1 {
			return usage(cmd + " <pct>")
		}
		pct, err := utils.ParseAmount(args[0])
		if err != nil {
			return models.ErrInvalidPercent
		}
		if cmd == "discount" {
			return c.engine.SetDiscountPercent(pct)
		}
		return c.engine.SetTaxPercent(pct)
	case "customers":
		return c.listCustomers(ctx)
	case "newcustomer":
		if len(args) < 2 {
			return usage("newcustomer <phone> <name>")
		}
		cust, err := c.store.CreateCustomer(ctx, &models.NewCustomer{Phone: args[0], Name: strings.Join(args[1:], " ")})
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "customer %s created (%s)\n", cust.ID, cust.Phone)
		return nil
	case "customer":
		if len(args) != 1 {
			return usage("customer <customerId>")
		}
		return c.engine.SelectCustomer(ctx, args[0])
	case "walkin":
		c.engine.ClearCustomer()
		return nil
	case "cart", "totals":
		c.printCart()
		return nil
	case "clear":
		c.engine.Clear()
		return nil
	case "checkout":
		onCredit := len(args) > 0 && strings.EqualFold(args[0], "credit")
		return c.checkout(ctx, onCredit)
	case "settle":
		if len(args) != 2 {
			return usage("settle <customerId> <amount>")
		}
		amount, err := utils.ParseAmount(args[1])
		if err != nil {
			return models.ErrInvalidAmount
		}
		cust, err := c.store.SettleCredit(ctx, args[0], amount)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s now owes %s\n", cust.Name, utils.FormatAmount(cust.Udhaar))
		return nil
	case "restock":
		if len(args) != 2 {
			return usage("restock <productId> <qty>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return models.ErrInvalidQuantity
		}
		p, err := c.store.ReceiveStock(ctx, args[0], n)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s stock is now %d\n", p.Name, p.Stock)
		return nil
	case "dashboard":
		return c.dashboard(ctx)
	case "export":
		if len(args) != 2 {
			return usage("export sales|lowstock <file.xlsx>")
		}
		return c.export(ctx, args[0], args[1])
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
}

func (c *console) add(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("add <productId> [qty]")
	}
	qty := 1
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return models.ErrInvalidQuantity
		}
		qty = n
	}
	p, err := c.store.GetProduct(ctx, args[0])
	if err != nil {
		return err
	}
	for i := 0; i < qty; i++ {
		if err := c.engine.AddLine(p); err != nil {
			return err
		}
	}
	line, _ := c.engine.Line(p.ID)
	fmt.Fprintf(c.out, "%s x%d @ %s\n", line.Name, line.Quantity, utils.FormatAmount(line.UnitPrice))
	return nil
}

func (c *console) checkout(ctx context.Context, onCredit bool) error {
	sale, err := c.finalizer.Checkout(ctx, c.engine, workflow.CheckoutOptions{OnCredit: onCredit})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "sale %s complete: %d items, total %s (%s)\n",
		sale.ID, sale.ItemCount(), utils.FormatAmount(sale.Total), sale.PaymentMode)
	return nil
}

func (c *console) listProducts(ctx context.Context, query string) error {
	products, err := catalog.SearchProducts(ctx, c.store, query)
	if err != nil {
		return err
	}
	c.printProducts(products)
	return nil
}

func (c *console) printProducts(products []*models.Product) {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSKU\tNAME\tCATEGORY\tPRICE\tSTOCK\t")
	for _, p := range products {
		mark := ""
		if p.IsLowStock() {
			mark = "low"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n", p.ID, p.Sku, p.Name, p.Category, utils.FormatAmount(p.Price), p.Stock, mark)
	}
	tw.Flush()
}

func (c *console) listCustomers(ctx context.Context) error {
	customers, err := c.store.ListCustomers(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPHONE\tUDHAAR\t")
	for _, cust := range customers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", cust.ID, cust.Name, cust.Phone, utils.FormatAmount(cust.Udhaar))
	}
	tw.Flush()
	return nil
}

func (c *console) printCart() {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tPRICE\tAMOUNT\t")
	for _, l := range c.engine.Lines() {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t\n", l.ProductId, l.Name, l.Quantity, utils.FormatAmount(l.UnitPrice), utils.FormatAmount(l.Amount()))
	}
	tw.Flush()

	t := c.engine.ComputeTotals()
	customer := "walk-in"
	if id := c.engine.CustomerID(); id != "" {
		customer = id
	}
	fmt.Fprintf(c.out, "customer: %s\n", customer)
	fmt.Fprintf(c.out, "subtotal: %s\n", utils.FormatAmount(t.Subtotal))
	fmt.Fprintf(c.out, "discount (%s%%): %s\n", t.DiscountPercent.String(), utils.FormatAmount(t.DiscountAmount))
	fmt.Fprintf(c.out, "tax (%s%%): %s\n", t.TaxPercent.String(), utils.FormatAmount(t.TaxAmount))
	fmt.Fprintf(c.out, "total: %s\n", utils.FormatAmount(t.Total))
}

func (c *console) dashboard(ctx context.Context) error {
	d, err := reports.GetDashboard(ctx, c.store, c.journal)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "products: %d (%d units, %d low)\n", d.ProductCount, d.TotalStock, len(d.LowStockItems))
	fmt.Fprintf(c.out, "customers: %d (%d owing %s)\n", d.CustomerCount, d.CustomersOwing, utils.FormatAmount(d.TotalUdhaar))
	fmt.Fprintf(c.out, "sales: %d revenue %s credit %s\n", d.SalesCount, utils.FormatAmount(d.Revenue), utils.FormatAmount(d.CreditSalesTotal))
	summary := c.journal.Summary()
	fmt.Fprintf(c.out, "cash: %s tax collected: %s\n", utils.FormatAmount(summary.CashSales), utils.FormatAmount(summary.TaxCollected))
	return nil
}

func (c *console) export(ctx context.Context, what, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(what) {
	case "sales":
		err = reports.ExportSales(f, c.journal.Sales())
	case "lowstock":
		var products []*models.Product
		products, err = catalog.LowStockProducts(ctx, c.store)
		if err == nil {
			err = reports.ExportLowStock(f, products)
		}
	default:
		err = usage("export sales|lowstock <file.xlsx>")
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		config.LogError(c.logger, "pos-console", "export", what, path, err)
		_ = os.Remove(path)
		return err
	}
	fmt.Fprintf(c.out, "wrote %s\n", path)
	return nil
}

func usage(s string) error {
	return fmt.Errorf("usage: %s", s)
}

// describe turns the engine's typed errors into operator-facing text.
func describe(err error) string {
	var insufficient *models.InsufficientStockError
	var notFound *models.NotFoundError
	var invalid *models.ValidationError
	switch {
	case errors.As(err, &insufficient):
		return fmt.Sprintf("only %d of product %s in stock, %d requested", insufficient.Available, insufficient.ProductId, insufficient.Requested)
	case errors.As(err, &notFound):
		return fmt.Sprintf("no %s with id %q", notFound.Entity, notFound.Id)
	case errors.As(err, &invalid):
		return invalid.Error()
	case errors.Is(err, models.ErrEmptyCart):
		return "cart is empty; add a product first"
	default:
		return err.Error()
	}
}
