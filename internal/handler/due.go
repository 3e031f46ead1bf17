package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/segyhp/club-engine/internal/domain"
	"github.com/segyhp/club-engine/internal/logger"
	"github.com/segyhp/club-engine/pkg/response"
	customError "github.com/segyhp/club-engine/pkg/errors"
)

const proofField = "proof"

type DueHandler struct {
	dues          DueService
	generator     GenerationService
	validator     *Validator
	defaultDueDay int
	maxProofBytes int64
}

func NewDueHandler(dues DueService, generator GenerationService, validator *Validator, defaultDueDay int, maxProofBytes int64) *DueHandler {
	if maxProofBytes <= 0 {
		maxProofBytes = domain.ProofMaxBytes
	}
	return &DueHandler{
		dues:          dues,
		generator:     generator,
		validator:     validator,
		defaultDueDay: defaultDueDay,
		maxProofBytes: maxProofBytes,
	}
}

// List handles GET /dues?member_id=&status=
func (h *DueHandler) List(w http.ResponseWriter, r *http.Request) {
	memberID, err := queryUUID(r, "member_id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	dues, err := h.dues.List(r.Context(), domain.DueFilter{
		MemberID: memberID,
		Status:   domain.DueStatus(r.URL.Query().Get("status")),
	})
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, h.render(dues))
}

// ListOverdue handles GET /dues/overdue
func (h *DueHandler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	dues, err := h.dues.ListOverdue(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, h.render(dues))
}

// Get handles GET /dues/{id}
func (h *DueHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	due, err := h.dues.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, domain.NewDueResponse(due, h.dues.Now()))
}

// Generate handles POST /dues/generate
func (h *DueHandler) Generate(w http.ResponseWriter, r *http.Request) {
	req := domain.GenerateDuesRequest{DueDay: h.defaultDueDay}
	if err := h.validator.Decode(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	summary, err := h.generator.GenerateDues(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, summary)
}

// SubmitProof handles POST /dues/{id}/proof with a multipart "proof" file.
func (h *DueHandler) SubmitProof(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	// room for the multipart envelope around the file
	r.Body = http.MaxBytesReader(w, r.Body, h.maxProofBytes+1<<20)

	var upload *domain.ProofUpload
	file, header, err := r.FormFile(proofField)
	switch {
	case err == nil:
		defer file.Close()
		upload = &domain.ProofUpload{
			Filename: header.Filename,
			Size:     header.Size,
			Content:  file,
		}
	case errors.Is(err, http.ErrMissingFile):
		// the service reports the missing file
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.FromError(w, customError.WrapValidation("proof file is too large",
				customError.FieldError{Field: proofField, Error: "file is too large"}))
			return
		}
		response.FromError(w, customError.WrapValidation("invalid multipart body: "+err.Error()))
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	due, err := h.dues.SubmitProof(r.Context(), id, upload)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, domain.NewDueResponse(due, h.dues.Now()))
}

// DownloadProof handles GET /dues/{id}/proof
func (h *DueHandler) DownloadProof(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	proof, err := h.dues.OpenProof(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	defer proof.Close()

	w.Header().Set("Content-Type", proof.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+proof.Name+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, proof); err != nil {
		logger.Warn("http", "Streaming proof for due %s failed: %v", id, err)
	}
}

// Approve handles POST /dues/{id}/approve
func (h *DueHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.dues.ApprovePayment)
}

// Reject handles POST /dues/{id}/reject
func (h *DueHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.dues.RejectPayment)
}

// RegisterPayment handles POST /dues/{id}/payment with an optional payment_date.
func (h *DueHandler) RegisterPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	var req domain.RegisterPaymentRequest
	if err := decodeJSON(r, &req, true); err != nil {
		response.FromError(w, err)
		return
	}

	due, err := h.dues.RegisterPayment(r.Context(), id, req.PaymentDate)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, domain.NewDueResponse(due, h.dues.Now()))
}

func (h *DueHandler) transition(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id uuid.UUID) (*domain.Due, error)) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	due, err := apply(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, domain.NewDueResponse(due, h.dues.Now()))
}

func (h *DueHandler) render(dues []*domain.Due) []*domain.DueResponse {
	now := h.dues.Now()
	out := make([]*domain.DueResponse, 0, len(dues))
	for _, d := range dues {
		out = append(out, domain.NewDueResponse(d, now))
	}
	return out
}
