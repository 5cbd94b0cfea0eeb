/*
Package payroll is the core of the engine: the employee model, the pay
calculators, and the payroll runner.

PURPOSE:
  Employees come in three compensation variants - hourly, salaried and
  commissioned - modeled as one struct with a closed Kind tag and
  variant-specific collections (time cards, sales receipts). Calculators
  dispatch with an exhaustive switch over Kind; there is no open-ended
  hierarchy to extend.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee: the tagged union, with deep Clone for snapshotting
  - PaymentMethod: in-hand, mail, or bank transfer
  - UnionMembership: member id, daily dues rate, date-keyed service charges
  - Store: the in-process employee store contract, including the
    Snapshot/Restore deep-copy semantics the undo log depends on

DESIGN PRINCIPLES:
  1. Precision: every monetary field is a decimal.Decimal
  2. Snapshot isolation: mutating a snapshot never affects the live store
  3. Validation at the edge: stored values are always well-formed, so the
     calculators treat malformed state as an invariant violation

SEE ALSO:
  - salary.go, deductions.go: per-variant pay arithmetic
  - runner.go: the payroll run orchestration
  - service.go: administration, postings and queries
*/
package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
)

// =============================================================================
// EMPLOYEE - Tagged union over the three compensation variants
// =============================================================================

type Kind string

const (
	Hourly       Kind = "hourly"
	Salaried     Kind = "salaried"
	Commissioned Kind = "commissioned"
)

func (k Kind) Valid() bool {
	return k == Hourly || k == Salaried || k == Commissioned
}

// DefaultSchedule returns the seed schedule descriptor for the variant.
func (k Kind) DefaultSchedule() string {
	switch k {
	case Hourly:
		return "weekly 5"
	case Salaried:
		return "monthly $"
	case Commissioned:
		return "weekly 2 5"
	}
	return ""
}

type PaymentKind string

const (
	PayInHand       PaymentKind = "in-hand"
	PayMail         PaymentKind = "mail"
	PayBankTransfer PaymentKind = "bank-transfer"
)

type PaymentMethod struct {
	Kind    PaymentKind `json:"kind"`
	Bank    string      `json:"bank,omitempty"`
	Branch  string      `json:"branch,omitempty"`
	Account string      `json:"account,omitempty"`
}

type TimeCard struct {
	Date  calendar.Date   `json:"date"`
	Hours decimal.Decimal `json:"hours"`
}

type SalesReceipt struct {
	Date   calendar.Date   `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

type ServiceCharge struct {
	Date   calendar.Date   `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// UnionMembership ties an employee to the union. MemberID is unique across
// all employees; DuesRate is charged per day (or per calendar month for
// monthly-salaried employees, see deductions.go).
type UnionMembership struct {
	MemberID string                          `json:"memberId"`
	DuesRate decimal.Decimal                 `json:"duesRate"`
	Charges  map[calendar.Date]ServiceCharge `json:"charges"`
}

func (u *UnionMembership) clone() *UnionMembership {
	if u == nil {
		return nil
	}
	charges := make(map[calendar.Date]ServiceCharge, len(u.Charges))
	for d, c := range u.Charges {
		charges[d] = c
	}
	return &UnionMembership{MemberID: u.MemberID, DuesRate: u.DuesRate, Charges: charges}
}

// Employee is a payroll record. One card/receipt per date: posting to an
// existing date replaces the earlier entry.
type Employee struct {
	ID             string          `json:"id"`
	Kind           Kind            `json:"kind"`
	Name           string          `json:"name"`
	Address        string          `json:"address"`
	BasePay        decimal.Decimal `json:"basePay"`
	CommissionRate decimal.Decimal `json:"commissionRate"`

	Method   PaymentMethod    `json:"method"`
	Union    *UnionMembership `json:"union,omitempty"`
	Schedule string           `json:"schedule"`

	// HireDate stays nil for hourly employees until their first time card.
	HireDate *calendar.Date `json:"hireDate,omitempty"`

	// LastPaid defaults to the day before HireDate, or the Never sentinel.
	LastPaid calendar.Date `json:"lastPaid"`

	TimeCards map[calendar.Date]TimeCard     `json:"timeCards,omitempty"`
	Sales     map[calendar.Date]SalesReceipt `json:"sales,omitempty"`
}

// Clone returns a deep copy. Snapshot/Restore and the undo log rely on the
// copy sharing nothing mutable with the original.
func (e *Employee) Clone() *Employee {
	c := *e
	c.Union = e.Union.clone()
	if e.HireDate != nil {
		hd := *e.HireDate
		c.HireDate = &hd
	}
	if e.TimeCards != nil {
		c.TimeCards = make(map[calendar.Date]TimeCard, len(e.TimeCards))
		for d, tc := range e.TimeCards {
			c.TimeCards[d] = tc
		}
	}
	if e.Sales != nil {
		c.Sales = make(map[calendar.Date]SalesReceipt, len(e.Sales))
		for d, sr := range e.Sales {
			c.Sales[d] = sr
		}
	}
	return &c
}

// IsUnionMember reports whether the employee currently belongs to the union.
func (e *Employee) IsUnionMember() bool { return e.Union != nil }

// =============================================================================
// STORE - In-process employee store contract
// =============================================================================

// State is a deep snapshot of the whole store: every employee plus the
// running id counter. Restoring a State replaces the live contents.
type State struct {
	Employees map[string]*Employee `json:"employees"`
	NextID    int                  `json:"nextId"`
}

// Clone deep-copies the state so neither side can mutate the other.
func (s State) Clone() State {
	employees := make(map[string]*Employee, len(s.Employees))
	for id, e := range s.Employees {
		employees[id] = e.Clone()
	}
	return State{Employees: employees, NextID: s.NextID}
}

// Store is the employee store consumed by the service and the runner.
// Snapshot and Restore carry deep-copy semantics: mutations through a
// returned snapshot must never affect the live store.
type Store interface {
	GetByID(id string) (*Employee, bool)
	ListAll() []*Employee
	Save(e *Employee)
	DeleteByID(id string) bool
	NextID() string
	Count() int
	Snapshot() State
	Restore(State)
}
