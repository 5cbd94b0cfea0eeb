package payroll_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/schedule"
)

// =============================================================================
// CREATION AND IDENTITY
// =============================================================================

func TestCreateEmployee_SequentialIDsAndDefaults(t *testing.T) {
	eng := newEngine()

	id1, err := eng.service.CreateEmployee("Bill", "Home", payroll.Hourly, "10.00")
	require.NoError(t, err)
	id2, err := eng.service.CreateEmployee("Mary", "Road", payroll.Salaried, "2500.00")
	require.NoError(t, err)
	id3, err := eng.service.CreateCommissioned("Sam", "City", "1000.00", "0.10")
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "3"}, []string{id1, id2, id3})

	e1, _ := eng.service.GetEmployee(id1)
	e2, _ := eng.service.GetEmployee(id2)
	e3, _ := eng.service.GetEmployee(id3)
	assert.Equal(t, "weekly 5", e1.Schedule)
	assert.Equal(t, "monthly $", e2.Schedule)
	assert.Equal(t, "weekly 2 5", e3.Schedule)
	assert.Equal(t, payroll.PayInHand, e1.Method.Kind)
	assert.Nil(t, e1.HireDate, "hourly hire date is unset until the first time card")
}

func TestCreateEmployee_Validation(t *testing.T) {
	eng := newEngine()

	_, err := eng.service.CreateEmployee("", "Home", payroll.Hourly, "10.00")
	assert.ErrorIs(t, err, payroll.ErrEmptyName)
	_, err = eng.service.CreateEmployee("Bill", "", payroll.Hourly, "10.00")
	assert.ErrorIs(t, err, payroll.ErrEmptyAddress)
	_, err = eng.service.CreateEmployee("Bill", "Home", payroll.Hourly, "abc")
	assert.ErrorIs(t, err, payroll.ErrPayNotNumeric)
	_, err = eng.service.CreateEmployee("Bill", "Home", payroll.Hourly, "-1")
	assert.ErrorIs(t, err, payroll.ErrPayNegative)
	_, err = eng.service.CreateEmployee("Bill", "Home", payroll.Commissioned, "1000.00")
	assert.ErrorIs(t, err, payroll.ErrRateRequired)
	_, err = eng.service.CreateEmployee("Bill", "Home", payroll.Kind("freelance"), "10.00")
	assert.ErrorIs(t, err, payroll.ErrInvalidKind)

	assert.Equal(t, 0, eng.service.Count(), "failed creations must not leak records")
	assert.Equal(t, 0, eng.log.UndoDepth(), "validation failures never reach the log")
}

func TestFindByName_OrdinalDisambiguates(t *testing.T) {
	eng := newEngine()
	id1, _ := eng.service.CreateEmployee("Bill", "Home", payroll.Hourly, "10.00")
	id2, _ := eng.service.CreateEmployee("Bill", "Away", payroll.Hourly, "12.00")

	got1, err := eng.service.FindByName("Bill", 1)
	require.NoError(t, err)
	got2, err := eng.service.FindByName("Bill", 2)
	require.NoError(t, err)
	assert.Equal(t, id1, got1)
	assert.Equal(t, id2, got2)

	_, err = eng.service.FindByName("Bill", 3)
	assert.ErrorIs(t, err, payroll.ErrNameNotFound)
	_, err = eng.service.FindByName("Nobody", 1)
	assert.ErrorIs(t, err, payroll.ErrNameNotFound)
}

// =============================================================================
// UNDO / REDO OBSERVABILITY
// =============================================================================

func TestUndo_CreateDeleteRoundTrip(t *testing.T) {
	// GIVEN: A created then deleted employee
	// WHEN: Undoing twice and redoing once
	// THEN: The store retraces: gone, back, gone again

	eng := newEngine()
	id, err := eng.service.CreateEmployee("Bill", "Home", payroll.Hourly, "10.00")
	require.NoError(t, err)
	require.NoError(t, eng.service.DeleteEmployee(id))

	require.NoError(t, eng.log.Undo()) // undo delete
	_, err = eng.service.GetEmployee(id)
	assert.NoError(t, err)

	require.NoError(t, eng.log.Undo()) // undo create
	_, err = eng.service.GetEmployee(id)
	assert.ErrorIs(t, err, payroll.ErrEmployeeNotFound)

	require.NoError(t, eng.log.Redo()) // redo create
	_, err = eng.service.GetEmployee(id)
	assert.NoError(t, err)
}

func TestUndo_AttributeEdit(t *testing.T) {
	eng := newEngine()
	id, _ := eng.service.CreateEmployee("Bill", "Home", payroll.Hourly, "10.00")
	require.NoError(t, eng.service.SetName(id, "William"))

	e, _ := eng.service.GetEmployee(id)
	assert.Equal(t, "William", e.Name)

	require.NoError(t, eng.log.Undo())
	e, _ = eng.service.GetEmployee(id)
	assert.Equal(t, "Bill", e.Name)
}

func TestUndo_ClearAllRestoresEverything(t *testing.T) {
	eng := newEngine()
	id, _ := eng.service.CreateEmployee("Bill", "Home", payroll.Hourly, "10.00")
	require.NoError(t, eng.service.ClearAll())
	assert.Equal(t, 0, eng.service.Count())

	require.NoError(t, eng.log.Undo())
	assert.Equal(t, 1, eng.service.Count())
	e, err := eng.service.GetEmployee(id)
	require.NoError(t, err)
	assert.Equal(t, "Bill", e.Name)
}

func TestClearAll_ResetsIDCounter(t *testing.T) {
	eng := newEngine()
	_, _ = eng.service.CreateEmployee("Bill", "Home", payroll.Hourly, "10.00")
	require.NoError(t, eng.service.ClearAll())

	id, err := eng.service.CreateEmployee("Mary", "Road", payroll.Salaried, "2500.00")
	require.NoError(t, err)
	assert.Equal(t, "1", id)
}

// =============================================================================
// PAYMENT METHOD AND UNION
// =============================================================================

func TestSetPaymentMethod(t *testing.T) {
	eng := newEngine()
	id, _ := eng.service.CreateEmployee("Bill", "Home", payroll.Hourly, "10.00")

	require.NoError(t, eng.service.SetPaymentMethod(id, payroll.PayMail))
	e, _ := eng.service.GetEmployee(id)
	assert.Equal(t, payroll.PayMail, e.Method.Kind)

	err := eng.service.SetPaymentMethod(id, payroll.PayBankTransfer)
	assert.ErrorIs(t, err, payroll.ErrBankDetailsRequired, "bank transfer needs account details")

	require.NoError(t, eng.service.SetBankAccount(id, "First National", "42", "12345-6"))
	e, _ = eng.service.GetEmployee(id)
	assert.Equal(t, payroll.PayBankTransfer, e.Method.Kind)
	assert.Equal(t, "First National", e.Method.Bank)

	err = eng.service.SetBankAccount(id, "First National", "", "12345-6")
	assert.ErrorIs(t, err, payroll.ErrBankDetailsRequired)
}

func TestJoinUnion_MemberIDMustBeUnique(t *testing.T) {
	eng := newEngine()
	id1, _ := eng.service.CreateEmployee("Bill", "Home", payroll.Hourly, "10.00")
	id2, _ := eng.service.CreateEmployee("Mary", "Road", payroll.Salaried, "2500.00")

	require.NoError(t, eng.service.JoinUnion(id1, "m1", "0.50"))
	err := eng.service.JoinUnion(id2, "m1", "0.25")
	assert.ErrorIs(t, err, payroll.ErrDuplicateMemberID)

	// Rejoining under the same id is fine for the same employee.
	require.NoError(t, eng.service.JoinUnion(id1, "m1", "0.75"))

	require.NoError(t, eng.service.LeaveUnion(id1))
	e, _ := eng.service.GetEmployee(id1)
	assert.Nil(t, e.Union)
}

func TestPostServiceCharge_AddressedByMemberID(t *testing.T) {
	eng := newEngine()
	id, _ := eng.service.CreateEmployee("Bill", "Home", payroll.Hourly, "10.00")
	require.NoError(t, eng.service.JoinUnion(id, "m1", "0.50"))

	require.NoError(t, eng.service.PostServiceCharge("m1", "5/1/2005", "10.00"))
	total, err := eng.service.ServiceChargesBetween(id, "1/1/2005", "1/2/2005")
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("10.00")))

	err = eng.service.PostServiceCharge("ghost", "5/1/2005", "10.00")
	assert.ErrorIs(t, err, payroll.ErrMemberNotFound)
}

// =============================================================================
// POSTINGS
// =============================================================================

func TestPostTimeCard_FirstCardFixesHireDate(t *testing.T) {
	eng := newEngine()
	id, _ := eng.service.CreateEmployee("Bill", "Home", payroll.Hourly, "10.00")

	require.NoError(t, eng.service.PostTimeCard(id, "3/1/2005", "8"))
	e, _ := eng.service.GetEmployee(id)
	require.NotNil(t, e.HireDate)
	assert.Equal(t, date(3, time.January, 2005), *e.HireDate)
	assert.Equal(t, date(2, time.January, 2005), e.LastPaid)

	// A later card does not move the hire date.
	require.NoError(t, eng.service.PostTimeCard(id, "10/1/2005", "8"))
	e, _ = eng.service.GetEmployee(id)
	assert.Equal(t, date(3, time.January, 2005), *e.HireDate)
}

func TestPostTimeCard_ReplacesSameDay(t *testing.T) {
	eng := newEngine()
	id, _ := eng.service.CreateEmployee("Bill", "Home", payroll.Hourly, "10.00")
	require.NoError(t, eng.service.PostTimeCard(id, "3/1/2005", "4"))
	require.NoError(t, eng.service.PostTimeCard(id, "3/1/2005", "8"))

	total, err := eng.service.RegularHoursBetween(id, "1/1/2005", "1/2/2005")
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("8")), "second posting replaces the first")
}

func TestPostTimeCard_Validation(t *testing.T) {
	eng := newEngine()
	hourly, _ := eng.service.CreateEmployee("Bill", "Home", payroll.Hourly, "10.00")
	salaried, _ := eng.service.CreateEmployee("Mary", "Road", payroll.Salaried, "2500.00")

	assert.ErrorIs(t, eng.service.PostTimeCard(salaried, "3/1/2005", "8"), payroll.ErrNotHourly)
	assert.ErrorIs(t, eng.service.PostTimeCard(hourly, "33/1/2005", "8"), payroll.ErrInvalidDate)
	assert.ErrorIs(t, eng.service.PostTimeCard(hourly, "3/1/2005", "0"), payroll.ErrHoursNotPositive)
	assert.ErrorIs(t, eng.service.PostTimeCard(hourly, "3/1/2005", "-2"), payroll.ErrHoursNotPositive)
	assert.ErrorIs(t, eng.service.PostTimeCard("99", "3/1/2005", "8"), payroll.ErrEmployeeNotFound)
}

func TestPostSale_OnlyForCommissioned(t *testing.T) {
	eng := newEngine()
	hourly, _ := eng.service.CreateEmployee("Bill", "Home", payroll.Hourly, "10.00")
	comm, _ := eng.service.CreateCommissioned("Sam", "City", "1000.00", "0.10")

	assert.ErrorIs(t, eng.service.PostSale(hourly, "3/1/2005", "100.00"), payroll.ErrNotCommissioned)
	require.NoError(t, eng.service.PostSale(comm, "3/1/2005", "100.00"))

	total, err := eng.service.SalesBetween(comm, "1/1/2005", "1/2/2005")
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("100.00")))
}

// =============================================================================
// RANGE QUERIES
// =============================================================================

func TestRangeQueries_HalfOpenWindow(t *testing.T) {
	// GIVEN: Cards on the 3rd and the 7th
	// WHEN: Querying [3/1, 7/1)
	// THEN: Only the card on the 3rd counts

	eng := newEngine()
	id, _ := eng.service.CreateEmployee("Bill", "Home", payroll.Hourly, "10.00")
	require.NoError(t, eng.service.PostTimeCard(id, "3/1/2005", "10"))
	require.NoError(t, eng.service.PostTimeCard(id, "7/1/2005", "8"))

	regular, err := eng.service.RegularHoursBetween(id, "3/1/2005", "7/1/2005")
	require.NoError(t, err)
	assert.True(t, regular.Equal(dec("8")))

	overtime, err := eng.service.OvertimeHoursBetween(id, "3/1/2005", "7/1/2005")
	require.NoError(t, err)
	assert.True(t, overtime.Equal(dec("2")))

	_, err = eng.service.RegularHoursBetween(id, "7/1/2005", "3/1/2005")
	assert.ErrorIs(t, err, payroll.ErrStartAfterEnd)
	_, err = eng.service.RegularHoursBetween(id, "bad", "7/1/2005")
	assert.ErrorIs(t, err, payroll.ErrInvalidStartDate)
}

// =============================================================================
// SCHEDULE ASSIGNMENT AND VARIANT CONVERSION
// =============================================================================

func TestSetSchedule_MustBeRegistered(t *testing.T) {
	eng := newEngine()
	id, _ := eng.service.CreateEmployee("Bill", "Home", payroll.Hourly, "10.00")

	assert.ErrorIs(t, eng.service.SetSchedule(id, "monthly 1"), schedule.ErrNotRegistered)

	require.NoError(t, eng.service.RegisterSchedule("monthly 1"))
	require.NoError(t, eng.service.SetSchedule(id, "monthly 1"))
	e, _ := eng.service.GetEmployee(id)
	assert.Equal(t, "monthly 1", e.Schedule)
}

func TestConvertKind_KeepsUnionAndMethod(t *testing.T) {
	// GIVEN: An hourly union member paid by mail, with time cards
	// WHEN: Converting to salaried
	// THEN: Union and method survive; cards vanish; schedule resets

	eng := newEngine()
	id, _ := eng.service.CreateEmployee("Bill", "Home", payroll.Hourly, "10.00")
	require.NoError(t, eng.service.PostTimeCard(id, "3/1/2005", "8"))
	require.NoError(t, eng.service.JoinUnion(id, "m1", "0.50"))
	require.NoError(t, eng.service.SetPaymentMethod(id, payroll.PayMail))

	require.NoError(t, eng.service.ConvertKind(id, payroll.Salaried, ""))
	e, _ := eng.service.GetEmployee(id)
	assert.Equal(t, payroll.Salaried, e.Kind)
	assert.Equal(t, "monthly $", e.Schedule)
	assert.Nil(t, e.TimeCards)
	assert.NotNil(t, e.Union)
	assert.Equal(t, payroll.PayMail, e.Method.Kind)
}

func TestConvertKind_ToCommissionedNeedsRate(t *testing.T) {
	eng := newEngine()
	id, _ := eng.service.CreateEmployee("Bill", "Home", payroll.Hourly, "10.00")

	assert.ErrorIs(t, eng.service.ConvertKind(id, payroll.Commissioned, ""), payroll.ErrRateRequired)

	require.NoError(t, eng.service.ConvertKind(id, payroll.Commissioned, "0.15"))
	e, _ := eng.service.GetEmployee(id)
	assert.Equal(t, payroll.Commissioned, e.Kind)
	assert.Equal(t, "weekly 2 5", e.Schedule)
	assert.NotNil(t, e.Sales)
	assert.True(t, e.CommissionRate.Equal(dec("0.15")))
}
