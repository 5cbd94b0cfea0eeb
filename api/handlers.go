/*
handlers.go - HTTP handlers for the payroll engine

PURPOSE:
  Exposes the engine via REST. Handlers parse HTTP, delegate to the payroll
  service/runner, and serialize responses. The engine itself is
  single-writer: a global mutex serializes every mutating call (including
  undo/redo) so the undo-log invariants hold under concurrent requests.

ENDPOINTS:
  Employees:
    GET    /api/employees                 List all employees
    POST   /api/employees                 Create employee
    GET    /api/employees/search          Find id by name (+ordinal)
    GET    /api/employees/{id}            Get employee
    PATCH  /api/employees/{id}            Edit attributes (each edit = one command)
    DELETE /api/employees/{id}            Delete employee
    PUT    /api/employees/{id}/method     Set payment method
    PUT    /api/employees/{id}/union      Join/leave union
    POST   /api/employees/{id}/timecards  Post a time card (hourly)
    POST   /api/employees/{id}/sales      Post a sales receipt (commissioned)
    GET    /api/employees/{id}/hours      Regular/overtime hours in [start,end)
    GET    /api/employees/{id}/sales      Sales total in [start,end)
    GET    /api/employees/{id}/charges    Service-charge total in [start,end)

  Union:
    POST   /api/union/{memberId}/charges  Post a service charge

  Payroll:
    POST   /api/payroll/run               Run payroll (?format=json|text|pdf)
    GET    /api/payroll/total             Gross total for a date, no mutation

  History:
    POST   /api/undo                      Undo the last command
    POST   /api/redo                      Redo the last undone command
    GET    /api/history                   Stack depths

  Admin:
    GET    /api/schedules                 List registered descriptors
    POST   /api/schedules                 Register a descriptor
    POST   /api/schedules/reset           Reset registry to defaults
    POST   /api/reset                     Clear the employee store (undoable)

ERROR HANDLING:
  400 validation/domain-rule, 404 not-found, 409 empty undo/redo stack.
*/
package api

import (
	"bytes"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/history"
	"github.com/warp/payroll-engine/money"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/schedule"
)

// Handler holds the engine components plus the mutation mutex.
type Handler struct {
	mu       sync.Mutex
	service  *payroll.Service
	runner   *payroll.Runner
	store    payroll.Store
	registry *schedule.Registry
	log      *history.Log
}

func NewHandler(store payroll.Store, registry *schedule.Registry, log *history.Log) *Handler {
	return &Handler{
		service:  payroll.NewService(store, registry, log),
		runner:   payroll.NewRunner(store, log),
		store:    store,
		registry: registry,
		log:      log,
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees := h.store.ListAll()
	out := make([]employeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, toEmployeeResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeRequest
	if !decode(w, r, &req) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	var id string
	var err error
	if payroll.Kind(req.Kind) == payroll.Commissioned {
		id, err = h.service.CreateCommissioned(req.Name, req.Address, req.BasePay, req.CommissionRate)
	} else {
		id, err = h.service.CreateEmployee(req.Name, req.Address, payroll.Kind(req.Kind), req.BasePay)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	e, _ := h.store.GetByID(id)
	writeJSON(w, http.StatusCreated, toEmployeeResponse(e))
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.GetEmployee(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeResponse(e))
}

func (h *Handler) FindEmployee(w http.ResponseWriter, r *http.Request) {
	ordinal := 1
	if s := r.URL.Query().Get("ordinal"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "ordinal must be an integer"})
			return
		}
		ordinal = n
	}
	id, err := h.service.FindByName(r.URL.Query().Get("name"), ordinal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

// UpdateEmployee applies each provided field as its own command, in a fixed
// order, stopping at the first failure.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req updateEmployeeRequest
	if !decode(w, r, &req) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	steps := []struct {
		set   bool
		apply func() error
	}{
		{req.Name != nil, func() error { return h.service.SetName(id, deref(req.Name)) }},
		{req.Address != nil, func() error { return h.service.SetAddress(id, deref(req.Address)) }},
		{req.BasePay != nil, func() error { return h.service.SetBasePay(id, deref(req.BasePay)) }},
		{req.CommissionRate != nil && req.Kind == nil, func() error { return h.service.SetCommissionRate(id, deref(req.CommissionRate)) }},
		{req.Schedule != nil, func() error { return h.service.SetSchedule(id, deref(req.Schedule)) }},
		{req.Kind != nil, func() error {
			return h.service.ConvertKind(id, payroll.Kind(deref(req.Kind)), deref(req.CommissionRate))
		}},
	}
	for _, step := range steps {
		if !step.set {
			continue
		}
		if err := step.apply(); err != nil {
			writeError(w, err)
			return
		}
	}
	e, err := h.service.GetEmployee(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeResponse(e))
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.service.DeleteEmployee(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetMethod(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req methodRequest
	if !decode(w, r, &req) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if payroll.PaymentKind(req.Kind) == payroll.PayBankTransfer {
		err = h.service.SetBankAccount(id, req.Bank, req.Branch, req.Account)
	} else {
		err = h.service.SetPaymentMethod(id, payroll.PaymentKind(req.Kind))
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetUnion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req unionRequest
	if !decode(w, r, &req) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if req.Member {
		err = h.service.JoinUnion(id, req.MemberID, req.DuesRate)
	} else {
		err = h.service.LeaveUnion(id)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// POSTINGS
// =============================================================================

func (h *Handler) PostTimeCard(w http.ResponseWriter, r *http.Request) {
	var req postingRequest
	if !decode(w, r, &req) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.service.PostTimeCard(chi.URLParam(r, "id"), req.Date, req.Hours); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) PostSale(w http.ResponseWriter, r *http.Request) {
	var req postingRequest
	if !decode(w, r, &req) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.service.PostSale(chi.URLParam(r, "id"), req.Date, req.Amount); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) PostServiceCharge(w http.ResponseWriter, r *http.Request) {
	var req postingRequest
	if !decode(w, r, &req) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.service.PostServiceCharge(chi.URLParam(r, "memberId"), req.Date, req.Amount); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RANGE QUERIES
// =============================================================================

func (h *Handler) GetHours(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	start, end := r.URL.Query().Get("start"), r.URL.Query().Get("end")

	regular, err := h.service.RegularHoursBetween(id, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	overtime, err := h.service.OvertimeHoursBetween(id, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"regular":  money.FormatHours(regular),
		"overtime": money.FormatHours(overtime),
	})
}

func (h *Handler) GetSales(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.SalesBetween(chi.URLParam(r, "id"),
		r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"total": money.FormatCurrency(total)})
}

func (h *Handler) GetServiceCharges(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.ServiceChargesBetween(chi.URLParam(r, "id"),
		r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"total": money.FormatCurrency(total)})
}

// =============================================================================
// PAYROLL
// =============================================================================

func (h *Handler) RunPayroll(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if !decode(w, r, &req) {
		return
	}
	date, err := calendar.Parse(req.Date)
	if err != nil {
		writeError(w, payroll.ErrInvalidDate)
		return
	}

	h.mu.Lock()
	report, err := h.runner.Run(date)
	h.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_ = report.Render(w)
	case "pdf":
		var buf bytes.Buffer
		if err := report.RenderPDF(&buf); err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "pdf rendering failed"})
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(buf.Bytes())
	default:
		writeJSON(w, http.StatusOK, report)
	}
}

func (h *Handler) PayrollTotal(w http.ResponseWriter, r *http.Request) {
	date, err := calendar.Parse(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, payroll.ErrInvalidDate)
		return
	}
	total, err := payroll.TotalPayroll(h.store, date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totalResponse{Date: date.String(), Total: money.FormatCurrency(total)})
}

// =============================================================================
// HISTORY
// =============================================================================

func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.log.Undo(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{UndoDepth: h.log.UndoDepth(), RedoDepth: h.log.RedoDepth()})
}

func (h *Handler) Redo(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.log.Redo(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{UndoDepth: h.log.UndoDepth(), RedoDepth: h.log.RedoDepth()})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, historyResponse{
		UndoDepth: h.log.UndoDepth(),
		RedoDepth: h.log.RedoDepth(),
		Last:      h.log.PeekUndo(),
	})
}

// =============================================================================
// ADMIN
// =============================================================================

func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.Descriptors())
}

func (h *Handler) RegisterSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if !decode(w, r, &req) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.service.RegisterSchedule(req.Descriptor); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) ResetSchedules(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.registry.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.service.ClearAll(); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
