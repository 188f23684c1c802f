package report

import (
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"

	"montarreda/internal/models"
	"montarreda/internal/services"
)

// Attivita renders the activity report: the job table, the summary block
// and the per-payment-method breakdown. The layout is fixed-width with
// bordered cells; pagination is handled by the auto page break at 15mm
// from the bottom.
func Attivita(w io.Writer, dataDa, dataA string, lavori []models.Lavoro, totali services.Totali, riepilogo services.Riepilogo) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Attivita | %s - %s", dataDa, dataA)), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	// Table header
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(20, 10, "Commessa", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 10, "Data", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 10, "Cliente", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 10, "Pagamento", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 10, "Contratto", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 10, "Saldo", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 10, "Extra", "1", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, l := range lavori {
		pdf.CellFormat(20, 10, tr(tronca(l.Commessa, 8)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 10, tr(tronca(l.Data, 10)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 10, tr(tronca(l.Cliente, 15)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 10, tr(tronca(l.Saldo, 12)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 10, tr(euro(l.Contratto)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 10, tr(euro(l.Saldato)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 10, tr(euro(l.ExtraConsegna)), "1", 1, "L", false, 0, "")
	}

	// Totals row: the Saldo column carries the raw sum over every job,
	// unlike the settled figure in the breakdown below.
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(110, 10, "Totale", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 10, tr(euro(riepilogo.Contratto)), "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 10, tr(euro(riepilogo.Saldato)), "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 10, tr(euro(riepilogo.ExtraSuConsegne)), "1", 1, "L", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Riepilogo Totali", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	rigaImporto(pdf, tr, "Totale Contratto:", riepilogo.Contratto)
	rigaImporto(pdf, tr, "Percentuale trasporto (6%):", riepilogo.PercentualeTrasporto)
	rigaImporto(pdf, tr, "Extra su consegne:", riepilogo.ExtraSuConsegne)
	pdf.SetFont("Arial", "B", 10)
	rigaImporto(pdf, tr, "Totale Lordo:", riepilogo.TotaleLordo)

	pdf.Ln(5)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Dettaglio Saldi", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	rigaImporto(pdf, tr, "Totale Contanti:", totali.Contanti)
	rigaImporto(pdf, tr, "Totale Assegni:", totali.Assegni)
	rigaImporto(pdf, tr, "Totale Bonifico:", totali.Bonifico)
	rigaImporto(pdf, tr, "Totale Finanziamento:", totali.Finanziamento)
	rigaImporto(pdf, tr, "Totale Negozio:", totali.Negozio)
	pdf.SetFont("Arial", "B", 10)
	rigaImporto(pdf, tr, "Totale:", totali.Contanti+totali.Assegni+totali.Bonifico+totali.Negozio)
	pdf.SetFont("Arial", "", 10)
	rigaImporto(pdf, tr, "Totale Sospeso:", totali.Sospeso)

	return pdf.Output(w)
}

func rigaImporto(pdf *gofpdf.Fpdf, tr func(string) string, label string, v float64) {
	pdf.CellFormat(80, 10, tr(label), "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 10, tr(euro(v)), "1", 1, "L", false, 0, "")
}

func euro(v float64) string { return fmt.Sprintf("%.2f €", v) }

// tronca cuts s to at most n runes; client names and codes overflow the
// fixed column widths otherwise.
func tronca(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
