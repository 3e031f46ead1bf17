package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/segyhp/club-engine/pkg/response"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health        *HealthHandler
	Auth          *AuthHandler
	Members       *MemberHandler
	Activities    *ActivityHandler
	Enrollments   *EnrollmentHandler
	Compensations *CompensationHandler
	Dues          *DueHandler
}

func NewRouter(h Handlers) *mux.Router {
	router := mux.NewRouter()

	router.Use(response.LoggingMiddleware)
	router.Use(response.CORSMiddleware)

	router.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", h.Health.Ready).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(h.Auth.Middleware)

	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", h.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", h.Auth.Me).Methods(http.MethodGet)

	api.HandleFunc("/members", h.Members.List).Methods(http.MethodGet)
	api.HandleFunc("/members", h.Members.Create).Methods(http.MethodPost)
	api.HandleFunc("/members/{id}", h.Members.Get).Methods(http.MethodGet)
	api.HandleFunc("/members/{id}", h.Members.Update).Methods(http.MethodPatch)
	api.HandleFunc("/members/{id}", h.Members.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/members/{id}/roles", h.Members.AssignRole).Methods(http.MethodPost)
	api.HandleFunc("/members/{id}/password", h.Members.ChangePassword).Methods(http.MethodPost)

	api.HandleFunc("/activities", h.Activities.List).Methods(http.MethodGet)
	api.HandleFunc("/activities", h.Activities.Create).Methods(http.MethodPost)
	api.HandleFunc("/activities/{id}", h.Activities.Get).Methods(http.MethodGet)
	api.HandleFunc("/activities/{id}", h.Activities.Update).Methods(http.MethodPatch)
	api.HandleFunc("/activities/{id}", h.Activities.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/activities/{id}/finish", h.Activities.Finish).Methods(http.MethodPost)
	api.HandleFunc("/activities/{id}/archive", h.Activities.Archive).Methods(http.MethodPost)
	api.HandleFunc("/activities/{id}/enrollees", h.Activities.Enrollees).Methods(http.MethodGet)

	api.HandleFunc("/enrollments", h.Enrollments.List).Methods(http.MethodGet)
	api.HandleFunc("/enrollments", h.Enrollments.Create).Methods(http.MethodPost)
	api.HandleFunc("/enrollments/{id}", h.Enrollments.Get).Methods(http.MethodGet)
	api.HandleFunc("/enrollments/{id}", h.Enrollments.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/enrollments/{id}/cancel", h.Enrollments.Cancel).Methods(http.MethodPost)

	// summary is registered before {id} so it is not parsed as an id
	api.HandleFunc("/compensations/summary", h.Compensations.Summary).Methods(http.MethodGet)
	api.HandleFunc("/compensations", h.Compensations.List).Methods(http.MethodGet)
	api.HandleFunc("/compensations", h.Compensations.Create).Methods(http.MethodPost)
	api.HandleFunc("/compensations/{id}", h.Compensations.Get).Methods(http.MethodGet)
	api.HandleFunc("/compensations/{id}", h.Compensations.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/dues", h.Dues.List).Methods(http.MethodGet)
	api.HandleFunc("/dues/overdue", h.Dues.ListOverdue).Methods(http.MethodGet)
	api.HandleFunc("/dues/generate", h.Dues.Generate).Methods(http.MethodPost)
	api.HandleFunc("/dues/{id}", h.Dues.Get).Methods(http.MethodGet)
	api.HandleFunc("/dues/{id}/proof", h.Dues.DownloadProof).Methods(http.MethodGet)
	api.HandleFunc("/dues/{id}/proof", h.Dues.SubmitProof).Methods(http.MethodPost)
	api.HandleFunc("/dues/{id}/approve", h.Dues.Approve).Methods(http.MethodPost)
	api.HandleFunc("/dues/{id}/reject", h.Dues.Reject).Methods(http.MethodPost)
	api.HandleFunc("/dues/{id}/payment", h.Dues.RegisterPayment).Methods(http.MethodPost)

	return router
}
