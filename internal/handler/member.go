package handler

import (
	"net/http"

	"github.com/segyhp/club-engine/internal/domain"
	"github.com/segyhp/club-engine/internal/service"
	customError "github.com/segyhp/club-engine/pkg/errors"
	"github.com/segyhp/club-engine/pkg/response"
)

type MemberHandler struct {
	members   *service.MemberService
	validator *Validator
}

func NewMemberHandler(members *service.MemberService, validator *Validator) *MemberHandler {
	return &MemberHandler{
		members:   members,
		validator: validator,
	}
}

// List handles GET /members?status=&role=
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	members, err := h.members.List(r.Context(), domain.MemberFilter{
		Status: domain.MemberStatus(q.Get("status")),
		Role:   domain.Role(q.Get("role")),
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	out := make([]*domain.MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, domain.NewMemberResponse(m))
	}
	response.Success(w, out)
}

func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateMemberRequest
	if err := h.validator.Decode(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	member, err := h.members.Create(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, domain.NewMemberResponse(member))
}

func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	member, err := h.members.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, domain.NewMemberResponse(member))
}

func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	var req domain.UpdateMemberRequest
	if err := h.validator.Decode(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	member, err := h.members.Update(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, domain.NewMemberResponse(member))
}

func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.members.Delete(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}

// AssignRole handles POST /members/{id}/roles
func (h *MemberHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	var req domain.AssignRoleRequest
	if err := h.validator.Decode(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	member, err := h.members.AssignRole(r.Context(), id, req.Role)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, domain.NewMemberResponse(member))
}

// ChangePassword handles POST /members/{id}/password. Only the member
// themselves or an admin may change it.
func (h *MemberHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		response.FromError(w, customError.WrapUnauthorized("authentication required"))
		return
	}
	if claims.MemberID != id.String() && !claims.IsAdmin {
		response.FromError(w, customError.WrapUnauthorized("cannot change another member's password"))
		return
	}

	var req domain.ChangePasswordRequest
	if err := h.validator.Decode(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.members.ChangePassword(r.Context(), id, &req); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}
