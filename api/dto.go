package api

import (
	"encoding/json"
	"net/http"

	"github.com/warp/payroll-engine/money"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// REQUEST BODIES
// =============================================================================

type createEmployeeRequest struct {
	Name           string `json:"name"`
	Address        string `json:"address"`
	Kind           string `json:"kind"`
	BasePay        string `json:"basePay"`
	CommissionRate string `json:"commissionRate,omitempty"`
}

type updateEmployeeRequest struct {
	Name           *string `json:"name,omitempty"`
	Address        *string `json:"address,omitempty"`
	BasePay        *string `json:"basePay,omitempty"`
	CommissionRate *string `json:"commissionRate,omitempty"`
	Schedule       *string `json:"schedule,omitempty"`
	Kind           *string `json:"kind,omitempty"`
}

type methodRequest struct {
	Kind    string `json:"kind"`
	Bank    string `json:"bank,omitempty"`
	Branch  string `json:"branch,omitempty"`
	Account string `json:"account,omitempty"`
}

type unionRequest struct {
	Member   bool   `json:"member"`
	MemberID string `json:"memberId,omitempty"`
	DuesRate string `json:"duesRate,omitempty"`
}

type postingRequest struct {
	Date   string `json:"date"`
	Hours  string `json:"hours,omitempty"`
	Amount string `json:"amount,omitempty"`
}

type runRequest struct {
	Date string `json:"date"`
}

type scheduleRequest struct {
	Descriptor string `json:"descriptor"`
}

// =============================================================================
// RESPONSE BODIES
// =============================================================================

// employeeResponse renders monetary fields in the engine's textual
// convention (comma separator, 2 decimals) and dates as d/M/yyyy.
type employeeResponse struct {
	ID             string                `json:"id"`
	Kind           string                `json:"kind"`
	Name           string                `json:"name"`
	Address        string                `json:"address"`
	BasePay        string                `json:"basePay"`
	CommissionRate string                `json:"commissionRate,omitempty"`
	Method         payroll.PaymentMethod `json:"method"`
	Schedule       string                `json:"schedule"`
	UnionMemberID  string                `json:"unionMemberId,omitempty"`
	UnionDuesRate  string                `json:"unionDuesRate,omitempty"`
	HireDate       string                `json:"hireDate,omitempty"`
	LastPaid       string                `json:"lastPaid"`
}

func toEmployeeResponse(e *payroll.Employee) employeeResponse {
	resp := employeeResponse{
		ID:       e.ID,
		Kind:     string(e.Kind),
		Name:     e.Name,
		Address:  e.Address,
		BasePay:  money.FormatCurrency(e.BasePay),
		Method:   e.Method,
		Schedule: e.Schedule,
		LastPaid: e.LastPaid.String(),
	}
	if e.Kind == payroll.Commissioned {
		resp.CommissionRate = money.FormatCurrency(e.CommissionRate)
	}
	if e.Union != nil {
		resp.UnionMemberID = e.Union.MemberID
		resp.UnionDuesRate = money.FormatCurrency(e.Union.DuesRate)
	}
	if e.HireDate != nil {
		resp.HireDate = e.HireDate.String()
	}
	return resp
}

type historyResponse struct {
	UndoDepth int    `json:"undoDepth"`
	RedoDepth int    `json:"redoDepth"`
	Last      string `json:"last,omitempty"`
}

type totalResponse struct {
	Date  string `json:"date"`
	Total string `json:"total"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// =============================================================================
// JSON HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto HTTP statuses: not-found
// 404, empty-stack state errors 409, everything else (validation and
// domain-rule) 400.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case payroll.IsNotFound(err):
		status = http.StatusNotFound
	case payroll.IsStateError(err):
		status = http.StatusConflict
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return false
	}
	return true
}
