/*
service.go - Employee administration, postings and queries

PURPOSE:
  The mutating surface of the engine. Every mutation validates its input
  first, takes a deep snapshot of the store, and then executes through the
  undo log with the snapshot as the inverse - so any operation, from a name
  edit to a full payroll run, undoes as a single unit.

REQUEST FLOW (mutations):
  1. Validate input (no mutation yet - validation errors never reach the log)
  2. Snapshot the store
  3. Execute forward action through history.Log
  4. On undo, the snapshot is reinstalled wholesale

SEE ALSO:
  - runner.go: the payroll run, executed through the same log
  - history: the undo/redo engine
*/
package payroll

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/history"
	"github.com/warp/payroll-engine/money"
	"github.com/warp/payroll-engine/schedule"
)

type Service struct {
	store    Store
	registry *schedule.Registry
	log      *history.Log
}

func NewService(store Store, registry *schedule.Registry, log *history.Log) *Service {
	return &Service{store: store, registry: registry, log: log}
}

// mutate snapshots the store and runs fn as an undoable command.
func (s *Service) mutate(name string, fn func() error) error {
	prev := s.store.Snapshot()
	return s.log.Execute(name, fn, func() { s.store.Restore(prev) })
}

// =============================================================================
// EMPLOYEE ADMINISTRATION
// =============================================================================

// CreateEmployee creates an hourly or salaried employee and returns the
// newly assigned sequential id. Commissioned employees need a commission
// rate; use CreateCommissioned.
func (s *Service) CreateEmployee(name, address string, kind Kind, basePay string) (string, error) {
	if kind == Commissioned {
		return "", ErrRateRequired
	}
	return s.create(name, address, kind, basePay, "0")
}

// CreateCommissioned creates a commissioned employee.
func (s *Service) CreateCommissioned(name, address, basePay, commissionRate string) (string, error) {
	return s.create(name, address, Commissioned, basePay, commissionRate)
}

func (s *Service) create(name, address string, kind Kind, basePay, commissionRate string) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}
	if address == "" {
		return "", ErrEmptyAddress
	}
	if !kind.Valid() {
		return "", ErrInvalidKind
	}
	pay, err := parseNonNegative(basePay, ErrPayNotNumeric, ErrPayNegative)
	if err != nil {
		return "", err
	}
	rate, err := parseNonNegative(commissionRate, ErrRateNotNumeric, ErrRateNegative)
	if err != nil {
		return "", err
	}

	var id string
	err = s.mutate("create employee "+name, func() error {
		id = s.store.NextID()
		e := &Employee{
			ID:             id,
			Kind:           kind,
			Name:           name,
			Address:        address,
			BasePay:        pay,
			CommissionRate: rate,
			Method:         PaymentMethod{Kind: PayInHand},
			Schedule:       kind.DefaultSchedule(),
			LastPaid:       calendar.Never,
		}
		if kind == Hourly {
			e.TimeCards = map[calendar.Date]TimeCard{}
		}
		if kind == Commissioned {
			e.Sales = map[calendar.Date]SalesReceipt{}
		}
		s.store.Save(e)
		return nil
	})
	return id, err
}

// DeleteEmployee removes the employee from the store.
func (s *Service) DeleteEmployee(id string) error {
	if _, err := s.get(id); err != nil {
		return err
	}
	return s.mutate("delete employee "+id, func() error {
		s.store.DeleteByID(id)
		return nil
	})
}

func (s *Service) SetName(id, name string) error {
	if name == "" {
		return ErrEmptyName
	}
	return s.update(id, "set name", func(e *Employee) error {
		e.Name = name
		return nil
	})
}

func (s *Service) SetAddress(id, address string) error {
	if address == "" {
		return ErrEmptyAddress
	}
	return s.update(id, "set address", func(e *Employee) error {
		e.Address = address
		return nil
	})
}

func (s *Service) SetBasePay(id, basePay string) error {
	pay, err := parseNonNegative(basePay, ErrPayNotNumeric, ErrPayNegative)
	if err != nil {
		return err
	}
	return s.update(id, "set base pay", func(e *Employee) error {
		e.BasePay = pay
		return nil
	})
}

func (s *Service) SetCommissionRate(id, rate string) error {
	e, err := s.get(id)
	if err != nil {
		return err
	}
	if e.Kind != Commissioned {
		return ErrNotCommissioned
	}
	parsed, err := parseNonNegative(rate, ErrRateNotNumeric, ErrRateNegative)
	if err != nil {
		return err
	}
	return s.update(id, "set commission rate", func(e *Employee) error {
		e.CommissionRate = parsed
		return nil
	})
}

// SetPaymentMethod switches to in-hand or mail delivery. Bank transfer
// requires account details; use SetBankAccount.
func (s *Service) SetPaymentMethod(id string, kind PaymentKind) error {
	switch kind {
	case PayInHand, PayMail:
	case PayBankTransfer:
		return ErrBankDetailsRequired
	default:
		return ErrInvalidMethod
	}
	return s.update(id, "set payment method", func(e *Employee) error {
		e.Method = PaymentMethod{Kind: kind}
		return nil
	})
}

func (s *Service) SetBankAccount(id, bank, branch, account string) error {
	if bank == "" || branch == "" || account == "" {
		return ErrBankDetailsRequired
	}
	return s.update(id, "set bank account", func(e *Employee) error {
		e.Method = PaymentMethod{Kind: PayBankTransfer, Bank: bank, Branch: branch, Account: account}
		return nil
	})
}

// JoinUnion makes the employee a union member. The member id must be unique
// across all employees.
func (s *Service) JoinUnion(id, memberID, duesRate string) error {
	if memberID == "" {
		return ErrEmptyMemberID
	}
	rate, err := parseNonNegative(duesRate, ErrDuesNotNumeric, ErrDuesNegative)
	if err != nil {
		return err
	}
	if _, err := s.get(id); err != nil {
		return err
	}
	for _, other := range s.store.ListAll() {
		if other.ID != id && other.Union != nil && other.Union.MemberID == memberID {
			return ErrDuplicateMemberID
		}
	}
	return s.update(id, "join union", func(e *Employee) error {
		e.Union = &UnionMembership{
			MemberID: memberID,
			DuesRate: rate,
			Charges:  map[calendar.Date]ServiceCharge{},
		}
		return nil
	})
}

func (s *Service) LeaveUnion(id string) error {
	return s.update(id, "leave union", func(e *Employee) error {
		e.Union = nil
		return nil
	})
}

// SetSchedule assigns a pay schedule descriptor. Descriptors outside the
// registry are rejected.
func (s *Service) SetSchedule(id, descriptor string) error {
	if !s.registry.Contains(descriptor) {
		return schedule.ErrNotRegistered
	}
	return s.update(id, "set schedule", func(e *Employee) error {
		e.Schedule = descriptor
		return nil
	})
}

// ConvertKind changes the employee's compensation variant. Union membership
// and payment method survive; variant-specific collections and the schedule
// are replaced by the new variant's (the new default schedule applies).
// commissionRate is required when converting to Commissioned.
func (s *Service) ConvertKind(id string, kind Kind, commissionRate string) error {
	e, err := s.get(id)
	if err != nil {
		return err
	}
	if !kind.Valid() {
		return ErrInvalidKind
	}
	rate := e.CommissionRate
	if kind == Commissioned {
		if commissionRate == "" {
			return ErrRateRequired
		}
		rate, err = parseNonNegative(commissionRate, ErrRateNotNumeric, ErrRateNegative)
		if err != nil {
			return err
		}
	}
	return s.update(id, "convert kind", func(e *Employee) error {
		e.Kind = kind
		e.CommissionRate = rate
		e.Schedule = kind.DefaultSchedule()
		e.TimeCards = nil
		e.Sales = nil
		if kind == Hourly {
			e.TimeCards = map[calendar.Date]TimeCard{}
		}
		if kind == Commissioned {
			e.Sales = map[calendar.Date]SalesReceipt{}
		}
		return nil
	})
}

// ClearAll wipes the store and the id counter. Undoable like any mutation.
func (s *Service) ClearAll() error {
	return s.mutate("clear all", func() error {
		s.store.Restore(State{Employees: map[string]*Employee{}, NextID: 0})
		return nil
	})
}

// =============================================================================
// POSTINGS
// =============================================================================

// PostTimeCard records hours worked on a date for an hourly employee. The
// first time card fixes the hire date and backdates the last-paid marker to
// the day before it.
func (s *Service) PostTimeCard(id, date, hours string) error {
	e, err := s.get(id)
	if err != nil {
		return err
	}
	if e.Kind != Hourly {
		return ErrNotHourly
	}
	day, err := calendar.Parse(date)
	if err != nil {
		return ErrInvalidDate
	}
	h, err := parsePositive(hours, ErrHoursNotPositive)
	if err != nil {
		return err
	}
	return s.update(id, "post time card", func(e *Employee) error {
		if e.HireDate == nil {
			hire := day
			e.HireDate = &hire
			e.LastPaid = hire.AddDays(-1)
		}
		if e.TimeCards == nil {
			e.TimeCards = map[calendar.Date]TimeCard{}
		}
		e.TimeCards[day] = TimeCard{Date: day, Hours: h}
		return nil
	})
}

// PostSale records a sales receipt for a commissioned employee.
func (s *Service) PostSale(id, date, amount string) error {
	e, err := s.get(id)
	if err != nil {
		return err
	}
	if e.Kind != Commissioned {
		return ErrNotCommissioned
	}
	day, err := calendar.Parse(date)
	if err != nil {
		return ErrInvalidDate
	}
	a, err := parsePositive(amount, ErrAmountNotPositive)
	if err != nil {
		return err
	}
	return s.update(id, "post sale", func(e *Employee) error {
		if e.Sales == nil {
			e.Sales = map[calendar.Date]SalesReceipt{}
		}
		e.Sales[day] = SalesReceipt{Date: day, Amount: a}
		return nil
	})
}

// PostServiceCharge records a charge against a union member, addressed by
// member id rather than employee id.
func (s *Service) PostServiceCharge(memberID, date, amount string) error {
	if memberID == "" {
		return ErrEmptyMemberID
	}
	day, err := calendar.Parse(date)
	if err != nil {
		return ErrInvalidDate
	}
	a, err := parsePositive(amount, ErrAmountNotPositive)
	if err != nil {
		return err
	}
	target, err := s.findByMember(memberID)
	if err != nil {
		return err
	}
	return s.update(target.ID, "post service charge", func(e *Employee) error {
		e.Union.Charges[day] = ServiceCharge{Date: day, Amount: a}
		return nil
	})
}

// =============================================================================
// QUERIES
// =============================================================================

func (s *Service) GetEmployee(id string) (*Employee, error) {
	return s.get(id)
}

// FindByName returns the id of the ordinal-th employee (1-based) with the
// given name, in id-sorted order.
func (s *Service) FindByName(name string, ordinal int) (string, error) {
	var matches []*Employee
	for _, e := range s.store.ListAll() {
		if e.Name == name {
			matches = append(matches, e)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	if ordinal < 1 || ordinal > len(matches) {
		return "", ErrNameNotFound
	}
	return matches[ordinal-1].ID, nil
}

func (s *Service) Count() int { return s.store.Count() }

// RegularHoursBetween aggregates capped hours over [start, end).
func (s *Service) RegularHoursBetween(id, start, end string) (decimal.Decimal, error) {
	e, p, err := s.hourlyRange(id, start, end)
	if err != nil {
		return decimal.Zero, err
	}
	return RegularHours(e, p), nil
}

// OvertimeHoursBetween aggregates above-8 hours over [start, end).
func (s *Service) OvertimeHoursBetween(id, start, end string) (decimal.Decimal, error) {
	e, p, err := s.hourlyRange(id, start, end)
	if err != nil {
		return decimal.Zero, err
	}
	return OvertimeHours(e, p), nil
}

// SalesBetween aggregates sales receipts over [start, end).
func (s *Service) SalesBetween(id, start, end string) (decimal.Decimal, error) {
	e, err := s.get(id)
	if err != nil {
		return decimal.Zero, err
	}
	if e.Kind != Commissioned {
		return decimal.Zero, ErrNotCommissioned
	}
	p, err := parseRange(start, end)
	if err != nil {
		return decimal.Zero, err
	}
	return SalesInPeriod(e, p), nil
}

// ServiceChargesBetween aggregates a member's service charges over [start, end).
func (s *Service) ServiceChargesBetween(id, start, end string) (decimal.Decimal, error) {
	e, err := s.get(id)
	if err != nil {
		return decimal.Zero, err
	}
	if e.Union == nil {
		return decimal.Zero, ErrNotUnionMember
	}
	p, err := parseRange(start, end)
	if err != nil {
		return decimal.Zero, err
	}
	return ServiceChargesInPeriod(e, p), nil
}

// RegisterSchedule adds a descriptor to the registry after validating the
// grammar. Registry changes are administrative, not undoable commands.
func (s *Service) RegisterSchedule(descriptor string) error {
	return s.registry.Register(descriptor)
}

// =============================================================================
// INTERNAL HELPERS
// =============================================================================

func (s *Service) get(id string) (*Employee, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	e, ok := s.store.GetByID(id)
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	return e, nil
}

func (s *Service) findByMember(memberID string) (*Employee, error) {
	for _, e := range s.store.ListAll() {
		if e.Union != nil && e.Union.MemberID == memberID {
			return e, nil
		}
	}
	return nil, ErrMemberNotFound
}

// update fetches, then runs fn against the live employee as a command.
func (s *Service) update(id, name string, fn func(*Employee) error) error {
	if _, err := s.get(id); err != nil {
		return err
	}
	return s.mutate(name+" "+id, func() error {
		e, ok := s.store.GetByID(id)
		if !ok {
			return ErrEmployeeNotFound
		}
		if err := fn(e); err != nil {
			return err
		}
		s.store.Save(e)
		return nil
	})
}

func (s *Service) hourlyRange(id, start, end string) (*Employee, Period, error) {
	e, err := s.get(id)
	if err != nil {
		return nil, Period{}, err
	}
	if e.Kind != Hourly {
		return nil, Period{}, ErrNotHourly
	}
	p, err := parseRange(start, end)
	if err != nil {
		return nil, Period{}, err
	}
	return e, p, nil
}

func parseRange(start, end string) (Period, error) {
	from, err := calendar.Parse(start)
	if err != nil {
		return Period{}, ErrInvalidStartDate
	}
	to, err := calendar.Parse(end)
	if err != nil {
		return Period{}, ErrInvalidEndDate
	}
	if from.After(to) {
		return Period{}, ErrStartAfterEnd
	}
	return Period{Start: from, End: to}, nil
}

func parseNonNegative(s string, notNumeric, negative error) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, notNumeric
	}
	d, err := money.Parse(s)
	if err != nil {
		return decimal.Zero, notNumeric
	}
	if d.IsNegative() {
		return decimal.Zero, negative
	}
	return d, nil
}

func parsePositive(s string, notPositive error) (decimal.Decimal, error) {
	d, err := money.Parse(s)
	if err != nil {
		return decimal.Zero, notPositive
	}
	if !d.IsPositive() {
		return decimal.Zero, notPositive
	}
	return d, nil
}
