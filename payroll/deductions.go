package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/money"
	"github.com/warp/payroll-engine/schedule"
)

// Deductions computes union dues plus service charges owed for the period
// since the last payment. Returns zero for non-members and whenever gross
// pay for the same date is not positive.
//
// Dues are charged per elapsed day - except for monthly-salaried employees,
// who are charged for runDate's calendar month regardless of the elapsed-day
// count. The sum is truncated once, not per addend.
func Deductions(e *Employee, runDate calendar.Date) (decimal.Decimal, error) {
	if e.Union == nil {
		return decimal.Zero, nil
	}
	gross, err := GrossPay(e, runDate)
	if err != nil {
		return decimal.Zero, err
	}
	if !gross.IsPositive() {
		return decimal.Zero, nil
	}

	sched, err := schedule.Parse(e.Schedule)
	if err != nil {
		return decimal.Zero, &CalculationError{EmployeeID: e.ID, Err: err}
	}

	var days int
	if e.Kind == Salaried && sched.IsMonthly() {
		days = calendar.DaysInMonth(runDate.Year, runDate.Month)
	} else {
		days = calendar.DaysBetween(e.LastPaid, runDate)
	}
	dues := e.Union.DuesRate.Mul(decimal.NewFromInt(int64(days)))

	charges := ServiceChargesInPeriod(e, PayPeriod(e, runDate))
	return money.Truncate2(dues.Add(charges)), nil
}
