package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/invoiceflow-app/invoiceflow/go/internal/analytics"
	"github.com/invoiceflow-app/invoiceflow/go/internal/client"
	"github.com/invoiceflow-app/invoiceflow/go/internal/invoice"
	"github.com/invoiceflow-app/invoiceflow/go/internal/models"
	"github.com/invoiceflow-app/invoiceflow/go/internal/trial"
	"github.com/invoiceflow-app/invoiceflow/go/internal/user"
)

type Handler struct {
	clients  client.Repository
	invoices invoice.Repository
	numbers  *invoice.Generator
	trials   trial.Service
}

func NewHandler(clients client.Repository, invoices invoice.Repository, numbers *invoice.Generator, trials trial.Service) *Handler {
	return &Handler{
		clients:  clients,
		invoices: invoices,
		numbers:  numbers,
		trials:   trials,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	u, ok := user.GetDBUserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	return u, true
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}

	clients, err := h.clients.ListByUser(r.Context(), u.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}

	var c models.Client
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c.UserID = u.ID

	created, err := h.clients.Create(r.Context(), &c)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}

	c, err := h.clients.GetByID(r.Context(), u.ID, mux.Vars(r)["clientID"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if c == nil {
		http.Error(w, "Client not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}

	var c models.Client
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c.ID = mux.Vars(r)["clientID"]
	c.UserID = u.ID

	updated, err := h.clients.Update(r.Context(), &c)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if updated == nil {
		http.Error(w, "Client not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.clients.Delete(r.Context(), u.ID, mux.Vars(r)["clientID"]); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createInvoiceRequest struct {
	models.Invoice
	Items []*models.InvoiceItem `json:"items"`
}

func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}

	if clientID := r.URL.Query().Get("client_id"); clientID != "" {
		invoices, err := h.invoices.ListByClient(r.Context(), u.ID, clientID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, invoices)
		return
	}

	invoices, err := h.invoices.ListByUser(r.Context(), u.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.Invoice.UserID = u.ID

	created, err := h.invoices.CreateWithItems(r.Context(), &req.Invoice, req.Items)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}

	inv, err := h.invoices.GetByID(r.Context(), u.ID, mux.Vars(r)["invoiceID"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if inv == nil {
		http.Error(w, "Invoice not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *Handler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.invoices.Delete(r.Context(), u.ID, mux.Vars(r)["invoiceID"]); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) NextInvoiceNumber(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}

	number, err := h.numbers.NextNumber(r.Context(), u.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"invoice_number": number})
}

type updateStatusRequest struct {
	Status models.InvoiceStatus `json:"status"`
}

func (h *Handler) UpdateInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inv, err := h.invoices.UpdateStatus(r.Context(), u.ID, mux.Vars(r)["invoiceID"], req.Status)
	if errors.Is(err, invoice.ErrInvalidTransition) || errors.Is(err, invoice.ErrStatusConflict) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if inv == nil {
		http.Error(w, "Invoice not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

type startTrialRequest struct {
	Plan models.Plan `json:"plan"`
}

func (h *Handler) StartTrial(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req startTrialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tr, err := h.trials.Start(r.Context(), u.ID, req.Plan)
	if errors.Is(err, trial.ErrActiveTrialExists) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if errors.Is(err, trial.ErrInvalidPlan) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, tr)
}

type updateTrialRequest struct {
	Status models.TrialStatus `json:"status"`
}

func (h *Handler) UpdateTrialStatus(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req updateTrialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tr, err := h.trials.UpdateStatus(r.Context(), u.ID, req.Status)
	if errors.Is(err, trial.ErrInvalidTrialStatus) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if tr == nil {
		http.Error(w, "No active trial", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

func (h *Handler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}

	invoices, err := h.invoices.ListByUser(r.Context(), u.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	clients, err := h.clients.ListByUser(r.Context(), u.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, analytics.Compute(invoices, clients, time.Now()))
}
