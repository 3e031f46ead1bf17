package handler

import (
	"net/http"

	"github.com/segyhp/club-engine/internal/domain"
	"github.com/segyhp/club-engine/internal/service"
	"github.com/segyhp/club-engine/pkg/response"
)

type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
	validator   *Validator
}

func NewEnrollmentHandler(enrollments *service.EnrollmentService, validator *Validator) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollments: enrollments,
		validator:   validator,
	}
}

// List handles GET /enrollments?member_id=&activity_id=&status=
func (h *EnrollmentHandler) List(w http.ResponseWriter, r *http.Request) {
	memberID, err := queryUUID(r, "member_id")
	if err != nil {
		response.FromError(w, err)
		return
	}
	activityID, err := queryUUID(r, "activity_id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	enrollments, err := h.enrollments.List(r.Context(), domain.EnrollmentFilter{
		MemberID:   memberID,
		ActivityID: activityID,
		Status:     domain.EnrollmentStatus(r.URL.Query().Get("status")),
	})
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, enrollments)
}

func (h *EnrollmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateEnrollmentRequest
	if err := h.validator.Decode(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	enrollment, err := h.enrollments.Create(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, enrollment)
}

func (h *EnrollmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	enrollment, err := h.enrollments.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, enrollment)
}

func (h *EnrollmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	enrollment, err := h.enrollments.Cancel(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, enrollment)
}

func (h *EnrollmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.enrollments.Delete(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}
