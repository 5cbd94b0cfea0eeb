package payroll

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/history"
	"github.com/warp/payroll-engine/schedule"
)

// =============================================================================
// RUNNER - Orchestrates one payroll run as a single undoable command
// =============================================================================

// Runner iterates all employees for a run date, applies the schedule engine
// and the pay calculators, advances last-paid markers, and aggregates the
// report. The whole run executes as one command: a failure anywhere aborts
// before anything is committed, and undo reinstalls the pre-run snapshot.
type Runner struct {
	store Store
	log   *history.Log
}

func NewRunner(store Store, log *history.Log) *Runner {
	return &Runner{store: store, log: log}
}

// Run executes payroll for runDate and returns the report.
func (r *Runner) Run(runDate calendar.Date) (*Report, error) {
	var report *Report
	prev := r.store.Snapshot()

	err := r.log.Execute("payroll run "+runDate.String(),
		func() error {
			rep, paid, err := r.compute(runDate)
			if err != nil {
				return err
			}
			// Commit point: nothing above mutated the store.
			for _, e := range paid {
				e.LastPaid = runDate
				r.store.Save(e)
			}
			report = rep
			return nil
		},
		func() { r.store.Restore(prev) },
	)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// compute builds the report and the list of employees whose last-paid marker
// advances. It reads but never writes the store.
func (r *Runner) compute(runDate calendar.Date) (*Report, []*Employee, error) {
	byKind := map[Kind][]*Employee{}
	for _, e := range r.store.ListAll() {
		byKind[e.Kind] = append(byKind[e.Kind], e)
	}
	for _, group := range byKind {
		sort.Slice(group, func(i, j int) bool { return group[i].Name < group[j].Name })
	}

	rep := &Report{Date: runDate}
	var paid []*Employee

	for _, kind := range []Kind{Hourly, Salaried, Commissioned} {
		section := rep.section(kind)
		for _, e := range byKind[kind] {
			due, err := r.isDue(e, runDate)
			if err != nil {
				return nil, nil, err
			}
			if !due {
				continue
			}

			line, err := buildLine(e, runDate)
			if err != nil {
				return nil, nil, err
			}
			section.add(line)

			if line.Gross.Sub(line.Deductions).IsPositive() {
				paid = append(paid, e)
			}
		}
	}
	rep.GrandTotal = rep.HourlySection.TotalGross.
		Add(rep.SalariedSection.TotalGross).
		Add(rep.CommissionedSection.TotalGross)
	return rep, paid, nil
}

// isDue applies the hire-date guard and the schedule engine.
func (r *Runner) isDue(e *Employee, runDate calendar.Date) (bool, error) {
	if e.HireDate != nil && runDate.Before(*e.HireDate) {
		return false, nil
	}
	sched, err := schedule.Parse(e.Schedule)
	if err != nil {
		return false, &CalculationError{EmployeeID: e.ID, Err: err}
	}
	return sched.IsPayDate(runDate), nil
}

// buildLine computes one employee's report line for the run date.
func buildLine(e *Employee, runDate calendar.Date) (Line, error) {
	gross, err := GrossPay(e, runDate)
	if err != nil {
		return Line{}, err
	}
	deductions, err := Deductions(e, runDate)
	if err != nil {
		return Line{}, err
	}
	net := decimal.Max(decimal.Zero, gross.Sub(deductions))

	line := Line{
		Name:       e.Name,
		Gross:      gross,
		Deductions: deductions,
		Net:        net,
		Method:     FormatMethod(e),
	}

	period := PayPeriod(e, runDate)
	switch e.Kind {
	case Hourly:
		line.RegularHours = RegularHours(e, period)
		line.OvertimeHours = OvertimeHours(e, period)
	case Commissioned:
		sched, err := schedule.Parse(e.Schedule)
		if err != nil {
			return Line{}, &CalculationError{EmployeeID: e.ID, Err: err}
		}
		line.Fixed = fixedPortion(e.BasePay, sched)
		line.Sales = SalesInPeriod(e, period)
		line.Commission = line.Gross.Sub(line.Fixed)
	}
	return line, nil
}

// TotalPayroll sums gross pay over every employee due on the date, without
// mutating anything. The report's grand total for the same date matches.
func TotalPayroll(store Store, runDate calendar.Date) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range store.ListAll() {
		if e.HireDate != nil && runDate.Before(*e.HireDate) {
			continue
		}
		sched, err := schedule.Parse(e.Schedule)
		if err != nil {
			return decimal.Zero, &CalculationError{EmployeeID: e.ID, Err: err}
		}
		if !sched.IsPayDate(runDate) {
			continue
		}
		gross, err := GrossPay(e, runDate)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(gross)
	}
	return total, nil
}
