package export

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ettle/strcase"
	"github.com/xuri/excelize/v2"

	storefront "github.com/goliatone/go-storefront/components/storefront"
)

const summarySheet = "Summary"

// ExcelReport writes a snapshot plus its derived aggregates into an xlsx
// workbook: one sheet per collection and a summary sheet.
type ExcelReport struct {
	snapshot storefront.Snapshot
	metrics  storefront.Metrics
}

// NewExcelReport captures the data to export. The snapshot and metrics are
// copied by value, so the report stays stable if the state keeps mutating.
func NewExcelReport(snapshot storefront.Snapshot, metrics storefront.Metrics) *ExcelReport {
	return &ExcelReport{snapshot: snapshot, metrics: metrics}
}

// WriteTo renders the workbook to w.
func (r *ExcelReport) WriteTo(ctx context.Context, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := r.writeProducts(f); err != nil {
		return err
	}
	if err := r.writeOrders(f); err != nil {
		return err
	}
	if err := r.writeCustomers(f); err != nil {
		return err
	}
	if err := r.writeSummary(f); err != nil {
		return err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("export: drop default sheet: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

// SaveFile renders the workbook to path.
func (r *ExcelReport) SaveFile(ctx context.Context, path string) error {
	out, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer out.Close()
	return r.WriteTo(ctx, out)
}

func (r *ExcelReport) writeProducts(f *excelize.File) error {
	sheet := sheetName(storefront.CollectionProducts)
	if err := addSheet(f, sheet, headers("id", "name", "category", "price", "stock", "status")); err != nil {
		return err
	}
	for i, p := range r.snapshot.Products {
		row := []any{p.ID, p.Name, p.Category, p.Price, p.Stock, string(p.Status())}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (r *ExcelReport) writeOrders(f *excelize.File) error {
	sheet := sheetName(storefront.CollectionOrders)
	if err := addSheet(f, sheet, headers("id", "product", "customer", "quantity", "total", "date")); err != nil {
		return err
	}
	for i, o := range r.snapshot.Orders {
		row := []any{
			o.ID,
			storefront.ProductName(r.snapshot.Products, o.ProductID),
			storefront.CustomerName(r.snapshot.Customers, o.CustomerID),
			o.Quantity,
			o.Total,
			o.Date,
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (r *ExcelReport) writeCustomers(f *excelize.File) error {
	sheet := sheetName(storefront.CollectionCustomers)
	if err := addSheet(f, sheet, headers("id", "name", "email")); err != nil {
		return err
	}
	for i, c := range r.snapshot.Customers {
		if err := writeRow(f, sheet, i+2, []any{c.ID, c.Name, c.Email}); err != nil {
			return err
		}
	}
	return nil
}

func (r *ExcelReport) writeSummary(f *excelize.File) error {
	if err := addSheet(f, summarySheet, headers("metric", "value")); err != nil {
		return err
	}
	rows := [][]any{
		{"Total Revenue", r.metrics.TotalRevenue},
		{"Total Orders", r.metrics.TotalOrders},
		{"Unique Customers", r.metrics.UniqueCustomers},
	}
	for _, bucket := range r.metrics.StockBreakdown {
		rows = append(rows, []any{fmt.Sprintf("Stock: %s", bucket.Status), bucket.Count})
	}
	for _, cat := range r.metrics.CategoryDistribution {
		rows = append(rows, []any{fmt.Sprintf("Category: %s", cat.Category), cat.Count})
	}
	for i, row := range rows {
		if err := writeRow(f, summarySheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func addSheet(f *excelize.File, name string, header []any) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("export: create sheet %s: %w", name, err)
	}
	return writeRow(f, name, 1, header)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("export: cell coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("export: set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

// sheetName turns a collection key into a worksheet title.
func sheetName(collection string) string {
	return strcase.ToCase(collection, strcase.TitleCase, ' ')
}

func headers(keys ...string) []any {
	out := make([]any, len(keys))
	for i, key := range keys {
		out[i] = strcase.ToCase(key, strcase.TitleCase, ' ')
	}
	return out
}
