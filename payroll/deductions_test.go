package payroll_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/payroll"
)

func withUnion(e *payroll.Employee, memberID, duesRate string) *payroll.Employee {
	e.Union = &payroll.UnionMembership{
		MemberID: memberID,
		DuesRate: dec(duesRate),
		Charges:  map[calendar.Date]payroll.ServiceCharge{},
	}
	return e
}

func addCharge(e *payroll.Employee, d calendar.Date, amount string) {
	e.Union.Charges[d] = payroll.ServiceCharge{Date: d, Amount: dec(amount)}
}

// =============================================================================
// DEDUCTION TESTS
// =============================================================================

func TestDeductions_NonMemberPaysNothing(t *testing.T) {
	e := hourlyEmployee("10.00")
	addCard(e, date(3, time.January, 2005), "8")

	d, err := payroll.Deductions(e, date(7, time.January, 2005))
	require.NoError(t, err)
	assert.True(t, d.IsZero())
}

func TestDeductions_ZeroWhenGrossNotPositive(t *testing.T) {
	// GIVEN: A union member with no hours worked this period
	// WHEN: Computing deductions
	// THEN: Zero - dues never push net pay below nothing earned

	e := withUnion(hourlyEmployee("10.00"), "m1", "0.50")

	d, err := payroll.Deductions(e, date(7, time.January, 2005))
	require.NoError(t, err)
	assert.True(t, d.IsZero())
}

func TestDeductions_WeeklyDuesPerElapsedDay(t *testing.T) {
	// GIVEN: Dues 0.50/day, last paid Sunday 2/1, run Friday 7/1
	// WHEN: Computing deductions
	// THEN: 5 elapsed days = 2.50

	e := withUnion(hourlyEmployee("10.00"), "m1", "0.50")
	addCard(e, date(3, time.January, 2005), "8")

	d, err := payroll.Deductions(e, date(7, time.January, 2005))
	require.NoError(t, err)
	assert.True(t, d.Equal(dec("2.50")), "deductions = %s", d)
}

func TestDeductions_MonthlySalaried_ChargedForCalendarMonth(t *testing.T) {
	// GIVEN: A monthly-salaried member with dues 1.00/day, never yet paid
	// WHEN: Running on 30/11/2005 (November's last workday)
	// THEN: Dues cover November's 30 days, not the unbounded elapsed span

	e := &payroll.Employee{
		ID: "2", Kind: payroll.Salaried, Name: "Mary",
		BasePay: dec("1000.00"), Schedule: "monthly $",
		LastPaid: calendar.Never,
	}
	withUnion(e, "m2", "1.00")

	d, err := payroll.Deductions(e, date(30, time.November, 2005))
	require.NoError(t, err)
	assert.True(t, d.Equal(dec("30.00")), "deductions = %s", d)
}

func TestDeductions_ServiceChargesInPeriodAdded(t *testing.T) {
	e := withUnion(hourlyEmployee("10.00"), "m1", "0.50")
	addCard(e, date(3, time.January, 2005), "8")
	addCharge(e, date(5, time.January, 2005), "10.00")
	addCharge(e, date(10, time.January, 2005), "99.00") // outside period

	d, err := payroll.Deductions(e, date(7, time.January, 2005))
	require.NoError(t, err)
	assert.True(t, d.Equal(dec("12.50")), "deductions = %s", d)
}

func TestDeductions_SumTruncatedOnce(t *testing.T) {
	// GIVEN: Dues 0.201/day over 5 days (1.005) plus a 0.005 charge
	// WHEN: Computing deductions
	// THEN: The sum 1.01 survives; truncating each addend first would lose it

	e := withUnion(hourlyEmployee("10.00"), "m1", "0.201")
	addCard(e, date(3, time.January, 2005), "8")
	addCharge(e, date(5, time.January, 2005), "0.005")

	d, err := payroll.Deductions(e, date(7, time.January, 2005))
	require.NoError(t, err)
	assert.True(t, d.Equal(dec("1.01")), "deductions = %s", d)
}
