/*
report.go - The payroll run report

PURPOSE:
  One payroll run produces a report with three sections (hourly, salaried,
  commissioned), each sorted by employee name with per-section running
  totals, plus a grand total line. The report renders as plain text for the
  scripted harness and as PDF for distribution.
*/
package payroll

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/money"
)

// Line is one paid employee in a report section. Hour fields are only set
// for hourly employees; fixed/sales/commission only for commissioned ones.
type Line struct {
	Name          string          `json:"name"`
	RegularHours  decimal.Decimal `json:"regularHours"`
	OvertimeHours decimal.Decimal `json:"overtimeHours"`
	Fixed         decimal.Decimal `json:"fixed"`
	Sales         decimal.Decimal `json:"sales"`
	Commission    decimal.Decimal `json:"commission"`
	Gross         decimal.Decimal `json:"gross"`
	Deductions    decimal.Decimal `json:"deductions"`
	Net           decimal.Decimal `json:"net"`
	Method        string          `json:"method"`
}

// Section accumulates the lines and totals for one compensation variant.
type Section struct {
	Lines              []Line          `json:"lines"`
	TotalRegularHours  decimal.Decimal `json:"totalRegularHours"`
	TotalOvertimeHours decimal.Decimal `json:"totalOvertimeHours"`
	TotalFixed         decimal.Decimal `json:"totalFixed"`
	TotalSales         decimal.Decimal `json:"totalSales"`
	TotalCommission    decimal.Decimal `json:"totalCommission"`
	TotalGross         decimal.Decimal `json:"totalGross"`
	TotalDeductions    decimal.Decimal `json:"totalDeductions"`
	TotalNet           decimal.Decimal `json:"totalNet"`
}

func (s *Section) add(l Line) {
	s.Lines = append(s.Lines, l)
	s.TotalRegularHours = s.TotalRegularHours.Add(l.RegularHours)
	s.TotalOvertimeHours = s.TotalOvertimeHours.Add(l.OvertimeHours)
	s.TotalFixed = s.TotalFixed.Add(l.Fixed)
	s.TotalSales = s.TotalSales.Add(l.Sales)
	s.TotalCommission = s.TotalCommission.Add(l.Commission)
	s.TotalGross = s.TotalGross.Add(l.Gross)
	s.TotalDeductions = s.TotalDeductions.Add(l.Deductions)
	s.TotalNet = s.TotalNet.Add(l.Net)
}

// Report is the outcome of one payroll run. GrandTotal is the sum of gross
// pay across all sections.
type Report struct {
	Date                calendar.Date   `json:"date"`
	HourlySection       Section         `json:"hourly"`
	SalariedSection     Section         `json:"salaried"`
	CommissionedSection Section         `json:"commissioned"`
	GrandTotal          decimal.Decimal `json:"grandTotal"`
}

func (r *Report) section(k Kind) *Section {
	switch k {
	case Hourly:
		return &r.HourlySection
	case Salaried:
		return &r.SalariedSection
	default:
		return &r.CommissionedSection
	}
}

// FormatMethod renders an employee's payment method for the report.
func FormatMethod(e *Employee) string {
	switch e.Method.Kind {
	case PayInHand:
		return "In hand"
	case PayMail:
		return "Mail, " + e.Address
	case PayBankTransfer:
		return fmt.Sprintf("%s, branch %s acct %s", e.Method.Bank, e.Method.Branch, e.Method.Account)
	}
	return ""
}

// =============================================================================
// TEXT RENDERING
// =============================================================================

const rule = "==============================================================================================================================="

// Render writes the plain-text report.
func (r *Report) Render(w io.Writer) error {
	cur := money.FormatCurrency
	hrs := money.FormatHours

	if _, err := fmt.Fprintf(w, "PAYROLL FOR %s\n%s\n\n", r.Date, "===================================="); err != nil {
		return err
	}

	writeHeader := func(title string) {
		fmt.Fprintf(w, "%s\n===================== %s\n%s\n", rule, title, rule)
	}

	writeHeader("HOURLY")
	fmt.Fprintf(w, "%-36s %5s %5s %13s %10s %15s %s\n", "Name", "Hours", "Extra", "Gross Pay", "Deductions", "Net Pay", "Method")
	for _, l := range r.HourlySection.Lines {
		fmt.Fprintf(w, "%-36s %5s %5s %13s %10s %15s %s\n",
			l.Name, hrs(l.RegularHours), hrs(l.OvertimeHours), cur(l.Gross), cur(l.Deductions), cur(l.Net), l.Method)
	}
	fmt.Fprintf(w, "\nTOTAL HOURLY %29s %5s %13s %10s %15s\n\n",
		hrs(r.HourlySection.TotalRegularHours), hrs(r.HourlySection.TotalOvertimeHours),
		cur(r.HourlySection.TotalGross), cur(r.HourlySection.TotalDeductions), cur(r.HourlySection.TotalNet))

	writeHeader("SALARIED")
	fmt.Fprintf(w, "%-48s %13s %10s %15s %s\n", "Name", "Gross Pay", "Deductions", "Net Pay", "Method")
	for _, l := range r.SalariedSection.Lines {
		fmt.Fprintf(w, "%-48s %13s %10s %15s %s\n", l.Name, cur(l.Gross), cur(l.Deductions), cur(l.Net), l.Method)
	}
	fmt.Fprintf(w, "\nTOTAL SALARIED %47s %10s %15s\n\n",
		cur(r.SalariedSection.TotalGross), cur(r.SalariedSection.TotalDeductions), cur(r.SalariedSection.TotalNet))

	writeHeader("COMMISSIONED")
	fmt.Fprintf(w, "%-17s %8s %10s %10s %13s %10s %15s %s\n", "Name", "Fixed", "Sales", "Commission", "Gross Pay", "Deductions", "Net Pay", "Method")
	for _, l := range r.CommissionedSection.Lines {
		fmt.Fprintf(w, "%-17s %8s %10s %10s %13s %10s %15s %s\n",
			l.Name, cur(l.Fixed), cur(l.Sales), cur(l.Commission), cur(l.Gross), cur(l.Deductions), cur(l.Net), l.Method)
	}
	fmt.Fprintf(w, "\nTOTAL COMMISSIONED %10s %10s %10s %13s %10s %15s\n\n",
		cur(r.CommissionedSection.TotalFixed), cur(r.CommissionedSection.TotalSales), cur(r.CommissionedSection.TotalCommission),
		cur(r.CommissionedSection.TotalGross), cur(r.CommissionedSection.TotalDeductions), cur(r.CommissionedSection.TotalNet))

	_, err := fmt.Fprintf(w, "TOTAL PAYROLL: %s\n", cur(r.GrandTotal))
	return err
}

// =============================================================================
// PDF RENDERING
// =============================================================================

// RenderPDF writes the report as a landscape A4 PDF with the same sections
// as the text rendering.
func (r *Report) RenderPDF(w io.Writer) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Payroll "+r.Date.String(), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "PAYROLL FOR "+r.Date.String(), "", 1, "L", false, 0, "")

	cur := money.FormatCurrency
	hrs := money.FormatHours

	sectionTitle := func(title string) {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
	}
	row := func(widths []float64, cells []string) {
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	hourlyWidths := []float64{70, 18, 18, 28, 28, 28, 80}
	sectionTitle("HOURLY")
	row(hourlyWidths, []string{"Name", "Hours", "Extra", "Gross", "Deductions", "Net", "Method"})
	for _, l := range r.HourlySection.Lines {
		row(hourlyWidths, []string{l.Name, hrs(l.RegularHours), hrs(l.OvertimeHours), cur(l.Gross), cur(l.Deductions), cur(l.Net), l.Method})
	}
	row(hourlyWidths, []string{"TOTAL", hrs(r.HourlySection.TotalRegularHours), hrs(r.HourlySection.TotalOvertimeHours),
		cur(r.HourlySection.TotalGross), cur(r.HourlySection.TotalDeductions), cur(r.HourlySection.TotalNet), ""})

	salariedWidths := []float64{106, 28, 28, 28, 80}
	sectionTitle("SALARIED")
	row(salariedWidths, []string{"Name", "Gross", "Deductions", "Net", "Method"})
	for _, l := range r.SalariedSection.Lines {
		row(salariedWidths, []string{l.Name, cur(l.Gross), cur(l.Deductions), cur(l.Net), l.Method})
	}
	row(salariedWidths, []string{"TOTAL", cur(r.SalariedSection.TotalGross), cur(r.SalariedSection.TotalDeductions),
		cur(r.SalariedSection.TotalNet), ""})

	commWidths := []float64{50, 24, 24, 24, 28, 28, 28, 64}
	sectionTitle("COMMISSIONED")
	row(commWidths, []string{"Name", "Fixed", "Sales", "Commission", "Gross", "Deductions", "Net", "Method"})
	for _, l := range r.CommissionedSection.Lines {
		row(commWidths, []string{l.Name, cur(l.Fixed), cur(l.Sales), cur(l.Commission), cur(l.Gross), cur(l.Deductions), cur(l.Net), l.Method})
	}
	row(commWidths, []string{"TOTAL", cur(r.CommissionedSection.TotalFixed), cur(r.CommissionedSection.TotalSales),
		cur(r.CommissionedSection.TotalCommission), cur(r.CommissionedSection.TotalGross),
		cur(r.CommissionedSection.TotalDeductions), cur(r.CommissionedSection.TotalNet), ""})

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, "TOTAL PAYROLL: "+cur(r.GrandTotal), "T", 1, "L", false, 0, "")

	return pdf.Output(w)
}
