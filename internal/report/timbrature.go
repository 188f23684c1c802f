package report

import (
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"

	"montarreda/internal/models"
)

// Timbrature renders one user's monthly attendance sheet: a row per day
// with clock-in/out times, worked hours, and the month total.
func Timbrature(w io.Writer, utente models.User, mese, anno int, timbrature []models.Timbratura) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Timbrature - %04d-%02d", anno, mese)), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	nome := utente.FullName
	if len(timbrature) == 0 {
		nome = "Nessun dato"
	}
	pdf.CellFormat(0, 10, tr("Utente: "+nome), "", 1, "L", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(40, 10, "Data", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 10, "Ingresso", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 10, "Uscita", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 10, "Ore Lavorate", "1", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	var totaleOre float64
	for _, t := range timbrature {
		ore := float64(t.TempoLavorativo) / 60
		totaleOre += ore
		pdf.CellFormat(40, 10, tr(t.Data), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 10, tr(t.OrarioIngresso), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 10, tr(t.OrarioUscita), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 10, fmt.Sprintf("%.2f", ore), "1", 1, "L", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(120, 10, "Totale Ore", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 10, fmt.Sprintf("%.2f", totaleOre), "1", 1, "L", false, 0, "")

	return pdf.Output(w)
}
