package handlers

import (
	"advisorchat-backend/internal/models"
	"advisorchat-backend/pkg/httputil"
	"context"
	"encoding/json"
	"net/http"
)

// CustomerService defines the interface expected from the customer service.
type CustomerService interface {
	ListCustomers(ctx context.Context, advisorID string) ([]models.CustomerResponse, error)
	GetCustomerDetail(ctx context.Context, customerID int64, advisorID string) (*models.CustomerDetailResponse, error)
	CreateCustomer(ctx context.Context, req models.CreateCustomerRequest) (*models.CustomerResponse, error)
	DeleteCustomer(ctx context.Context, customerID int64, advisorID string) error
	CreateAccount(ctx context.Context, customerID int64, advisorID string, req models.CreateAccountRequest) (*models.AccountResponse, error)
}

type CustomerHandler struct {
	customerService CustomerService
}

func NewCustomerHandler(svc CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: svc}
}

// HandleListCustomers handles GET /api/v1/customers?advisor_id=
func (h *CustomerHandler) HandleListCustomers(w http.ResponseWriter, r *http.Request) {
	advisorID, ok := queryAdvisorID(w, r)
	if !ok {
		return
	}

	customers, err := h.customerService.ListCustomers(r.Context(), advisorID)
	if err != nil {
		respondServiceError(w, r, err, "Customer not found")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, customers)
}

// HandleGetCustomer handles GET /api/v1/customers/{customerID}?advisor_id=
func (h *CustomerHandler) HandleGetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := int64Param(r, "customerID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid customer ID")
		return
	}
	advisorID, ok := queryAdvisorID(w, r)
	if !ok {
		return
	}

	detail, err := h.customerService.GetCustomerDetail(r.Context(), customerID, advisorID)
	if err != nil {
		respondServiceError(w, r, err, "Customer not found")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, detail)
}

// HandleCreateCustomer handles POST /api/v1/customers
func (h *CustomerHandler) HandleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	advisorID, ok := resolveAdvisorID(r, req.AdvisorID)
	if !ok {
		httputil.RespondError(w, http.StatusBadRequest, "advisor_id is required")
		return
	}
	req.AdvisorID = advisorID

	customer, err := h.customerService.CreateCustomer(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err, "Customer not found")
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, customer)
}

// HandleDeleteCustomer handles DELETE /api/v1/customers/{customerID}?advisor_id=
func (h *CustomerHandler) HandleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := int64Param(r, "customerID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid customer ID")
		return
	}
	advisorID, ok := queryAdvisorID(w, r)
	if !ok {
		return
	}

	if err := h.customerService.DeleteCustomer(r.Context(), customerID, advisorID); err != nil {
		respondServiceError(w, r, err, "Customer not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCreateAccount handles POST /api/v1/customers/{customerID}/accounts?advisor_id=
func (h *CustomerHandler) HandleCreateAccount(w http.ResponseWriter, r *http.Request) {
	customerID, err := int64Param(r, "customerID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid customer ID")
		return
	}
	advisorID, ok := queryAdvisorID(w, r)
	if !ok {
		return
	}

	var req models.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	account, err := h.customerService.CreateAccount(r.Context(), customerID, advisorID, req)
	if err != nil {
		respondServiceError(w, r, err, "Customer not found")
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, account)
}
