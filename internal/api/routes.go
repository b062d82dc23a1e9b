package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/invoiceflow-app/invoiceflow/go/internal/auth"
)

func SetupRoutes(handler *Handler, authMiddleware *auth.Middleware, userMiddleware func(http.Handler) http.Handler, allowedOrigin string) *mux.Router {
	r := mux.NewRouter()

	r.Use(CORSMiddleware(allowedOrigin))
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)
	r.Use(authMiddleware.RequireAuth)
	r.Use(userMiddleware)

	r.HandleFunc("/api/v1/me", handler.GetMe).Methods("GET")

	r.HandleFunc("/api/v1/clients", handler.ListClients).Methods("GET")
	r.HandleFunc("/api/v1/clients", handler.CreateClient).Methods("POST")
	r.HandleFunc("/api/v1/clients/{clientID}", handler.GetClient).Methods("GET")
	r.HandleFunc("/api/v1/clients/{clientID}", handler.UpdateClient).Methods("PUT")
	r.HandleFunc("/api/v1/clients/{clientID}", handler.DeleteClient).Methods("DELETE")

	r.HandleFunc("/api/v1/invoices", handler.ListInvoices).Methods("GET")
	r.HandleFunc("/api/v1/invoices", handler.CreateInvoice).Methods("POST")
	r.HandleFunc("/api/v1/invoices/next-number", handler.NextInvoiceNumber).Methods("GET")
	r.HandleFunc("/api/v1/invoices/{invoiceID}", handler.GetInvoice).Methods("GET")
	r.HandleFunc("/api/v1/invoices/{invoiceID}", handler.DeleteInvoice).Methods("DELETE")
	r.HandleFunc("/api/v1/invoices/{invoiceID}/status", handler.UpdateInvoiceStatus).Methods("POST")

	r.HandleFunc("/api/v1/trial", handler.StartTrial).Methods("POST")
	r.HandleFunc("/api/v1/trial/status", handler.UpdateTrialStatus).Methods("POST")

	r.HandleFunc("/api/v1/dashboard/stats", handler.GetDashboardStats).Methods("GET")

	return r
}
