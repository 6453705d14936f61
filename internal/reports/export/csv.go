// Package export renders sales reports as CSV and PDF documents.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/meridian-pos/meridian-pos/internal/sales"
)

// WriteSalesCSV serialises the raw sale rows of a report period to CSV.
// Every sale in the period is listed regardless of status, so the export
// doubles as an audit trail for cancellations.
func WriteSalesCSV(w io.Writer, records []sales.Sale) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"Sale Number", "Date", "Customer", "Items", "Subtotal", "Tax", "Discount", "Total", "Payment Method", "Status"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, sale := range records {
		customer := sale.CustomerName
		if customer == "" {
			customer = "N/A"
		}
		record := []string{
			sale.SaleNumber,
			sale.SaleDate.In(time.Local).Format("2006-01-02 15:04:05"),
			customer,
			// Number of lines on the receipt, not units sold.
			strconv.Itoa(len(sale.Items)),
			sale.Subtotal.StringFixed(2),
			sale.TaxAmount.StringFixed(2),
			sale.DiscountAmount.StringFixed(2),
			sale.TotalAmount.StringFixed(2),
			string(sale.PaymentMethod),
			string(sale.Status),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
