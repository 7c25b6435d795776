// Package report renders a solved cycle as a PDF document.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"

	"Thermo/internal/calc/cycle"
)

type Input struct {
	Project string       `json:"project"`
	Author  string       `json:"author"`
	Notes   string       `json:"notes"`
	Params  cycle.Params `json:"params"`
}

var stateColumns = []struct {
	title string
	width float64
}{
	{"Estado", 18}, {"P (bar)", 24}, {"T (°C)", 24}, {"h (kJ/kg)", 28},
	{"s (kJ/kg·K)", 28}, {"rho (kg/m³)", 26}, {"Fase", 22}, {"x", 14},
}

// Render writes rep as an A4 PDF: a header block, the metrics table and, when
// the cycle has them, the state-point table.
func Render(w io.Writer, in Input, rep cycle.Report, now time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(rep.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	if in.Project != "" {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Proyecto: %s", in.Project)))
		pdf.Ln(6)
	}
	if in.Author != "" {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Autor: %s", in.Author)))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Fecha: %s", now.Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, tr("Resultados"))
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)
	for _, m := range rep.Metrics {
		pdf.CellFormat(100, 7, tr(m.Label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, tr(m.Format()), "1", 1, "R", false, 0, "")
	}

	if len(rep.States) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, tr(cycle.StatesLabel))
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "B", 9)
		for _, c := range stateColumns {
			pdf.CellFormat(c.width, 7, tr(c.title), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
		for _, s := range rep.States {
			cells := stateCells(s)
			for i, c := range stateColumns {
				pdf.CellFormat(c.width, 6, tr(cells[i]), "1", 0, "R", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	if in.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(in.Notes), "", "L", false)
	}
	return pdf.Output(w)
}

func stateCells(s cycle.StatePoint) []string {
	x := "-"
	if s.Quality != nil {
		x = fmt.Sprintf("%.3f", *s.Quality)
	}
	return []string{
		s.Label,
		fmt.Sprintf("%.4g", s.P),
		fmt.Sprintf("%.2f", s.T),
		fmt.Sprintf("%.2f", s.H),
		fmt.Sprintf("%.4f", s.S),
		fmt.Sprintf("%.4g", s.Rho),
		s.Phase,
		x,
	}
}
