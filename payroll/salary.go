package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/money"
	"github.com/warp/payroll-engine/schedule"
)

// =============================================================================
// PERIOD - The aggregation window for one payroll computation
// =============================================================================

// Period is the half-open window [Start, End) over which time cards, sales
// and service charges are aggregated.
type Period struct {
	Start calendar.Date
	End   calendar.Date
}

// PayPeriod is the window covered by paying an employee on runDate:
// (lastPaid, runDate] expressed as [lastPaid+1, runDate+1).
func PayPeriod(e *Employee, runDate calendar.Date) Period {
	return Period{Start: e.LastPaid.AddDays(1), End: runDate.AddDays(1)}
}

func (p Period) Contains(d calendar.Date) bool {
	return d.AfterOrEqual(p.Start) && d.Before(p.End)
}

// =============================================================================
// PERIOD AGGREGATES
// =============================================================================

var (
	eight        = decimal.NewFromInt(8)
	overtimeRate = decimal.RequireFromString("1.5")
	twelve       = decimal.NewFromInt(12)
	fiftyTwo     = decimal.NewFromInt(52)
)

// RegularHours sums hours capped at 8 per time card within the period.
func RegularHours(e *Employee, p Period) decimal.Decimal {
	total := decimal.Zero
	for _, tc := range e.TimeCards {
		if p.Contains(tc.Date) {
			total = total.Add(decimal.Min(tc.Hours, eight))
		}
	}
	return total
}

// OvertimeHours sums hours above 8 per time card within the period.
func OvertimeHours(e *Employee, p Period) decimal.Decimal {
	total := decimal.Zero
	for _, tc := range e.TimeCards {
		if p.Contains(tc.Date) && tc.Hours.GreaterThan(eight) {
			total = total.Add(tc.Hours.Sub(eight))
		}
	}
	return total
}

// SalesInPeriod sums sales receipt amounts within the period.
func SalesInPeriod(e *Employee, p Period) decimal.Decimal {
	total := decimal.Zero
	for _, sr := range e.Sales {
		if p.Contains(sr.Date) {
			total = total.Add(sr.Amount)
		}
	}
	return total
}

// ServiceChargesInPeriod sums union service charges within the period.
// Zero for non-members.
func ServiceChargesInPeriod(e *Employee, p Period) decimal.Decimal {
	total := decimal.Zero
	if e.Union == nil {
		return total
	}
	for _, sc := range e.Union.Charges {
		if p.Contains(sc.Date) {
			total = total.Add(sc.Amount)
		}
	}
	return total
}

// =============================================================================
// GROSS PAY
// =============================================================================

// GrossPay computes the pre-deduction pay owed for the period since the last
// payment. Stored values are validated at write time; a descriptor that no
// longer parses is an invariant violation and surfaces as an error that
// aborts the enclosing payroll run.
func GrossPay(e *Employee, runDate calendar.Date) (decimal.Decimal, error) {
	sched, err := schedule.Parse(e.Schedule)
	if err != nil {
		return decimal.Zero, &CalculationError{EmployeeID: e.ID, Err: err}
	}
	period := PayPeriod(e, runDate)

	switch e.Kind {
	case Hourly:
		regular := RegularHours(e, period).Mul(e.BasePay)
		overtime := OvertimeHours(e, period).Mul(e.BasePay).Mul(overtimeRate)
		return money.Truncate2(regular.Add(overtime)), nil

	case Salaried:
		return fixedPortion(e.BasePay, sched), nil

	case Commissioned:
		fixed := fixedPortion(e.BasePay, sched)
		commission := money.Truncate2(SalesInPeriod(e, period).Mul(e.CommissionRate))
		return money.Truncate2(fixed.Add(commission)), nil
	}
	return decimal.Zero, &CalculationError{EmployeeID: e.ID, Err: ErrInvalidKind}
}

// fixedPortion is the base salary, prorated to floor(base*12/52*frequency)
// when the schedule is weekly rather than monthly.
func fixedPortion(base decimal.Decimal, sched schedule.Schedule) decimal.Decimal {
	if sched.IsMonthly() {
		return base
	}
	freq := decimal.NewFromInt(int64(sched.Frequency()))
	return money.Truncate2(base.Mul(twelve).Div(fiftyTwo).Mul(freq))
}
