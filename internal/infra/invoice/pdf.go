// Package invoice renders order invoices as PDF documents.
package invoice

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/farmdirect/backend/internal/core/service"
)

// Render writes a minimal PDF invoice: order id, consumer identity and the
// stored total.
func Render(w io.Writer, inv *service.Invoice) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)

	pdf.CellFormat(0, 8, fmt.Sprintf("Invoice for Order ID: %s", inv.OrderID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Customer: %s (%s)", inv.ConsumerName, inv.ConsumerEmail), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Total Price: $%s", inv.TotalPrice.StringFixed(2)), "", 1, "L", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("invoice: render %s: %w", inv.OrderID, err)
	}
	return nil
}
