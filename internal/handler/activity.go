package handler

import (
	"net/http"

	"github.com/segyhp/club-engine/internal/domain"
	"github.com/segyhp/club-engine/internal/service"
	"github.com/segyhp/club-engine/pkg/response"
)

type ActivityHandler struct {
	activities *service.ActivityService
	validator  *Validator
}

func NewActivityHandler(activities *service.ActivityService, validator *Validator) *ActivityHandler {
	return &ActivityHandler{
		activities: activities,
		validator:  validator,
	}
}

// List handles GET /activities?status=&staff_member_id=
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	staffID, err := queryUUID(r, "staff_member_id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	activities, err := h.activities.List(r.Context(), domain.ActivityFilter{
		Status:        domain.ActivityStatus(r.URL.Query().Get("status")),
		StaffMemberID: staffID,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, activities)
}

func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateActivityRequest
	if err := h.validator.Decode(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	activity, err := h.activities.Create(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, activity)
}

func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	activity, err := h.activities.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, activity)
}

func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	var req domain.UpdateActivityRequest
	if err := h.validator.Decode(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	activity, err := h.activities.Update(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, activity)
}

func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.activities.Delete(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}

func (h *ActivityHandler) Finish(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	activity, err := h.activities.Finish(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, activity)
}

func (h *ActivityHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	activity, err := h.activities.Archive(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, activity)
}

// Enrollees handles GET /activities/{id}/enrollees
func (h *ActivityHandler) Enrollees(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	enrollments, err := h.activities.ListEnrollees(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, enrollments)
}
