package handler

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/club-engine/internal/domain"
	"github.com/segyhp/club-engine/internal/service"
	customError "github.com/segyhp/club-engine/pkg/errors"
)

func sampleDue(status domain.DueStatus) *domain.Due {
	return &domain.Due{
		ID:          uuid.New(),
		MemberID:    uuid.New(),
		MemberName:  "Ana Torres",
		PeriodMonth: 1,
		PeriodYear:  2025,
		BaseValue:   decimal.NewFromInt(5000),
		TotalValue:  decimal.NewFromInt(5000),
		DueDate:     time.Date(2025, 1, 10, 23, 59, 59, 0, time.UTC),
		Status:      status,
	}
}

func multipartProof(t *testing.T, target, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := mw.CreateFormFile("proof", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestDueHandler_ListPassesFilter(t *testing.T) {
	env := newTestEnv(t)
	memberID := uuid.New()
	due := sampleDue(domain.DueStatusOverdue)

	env.dues.On("List", mock.Anything, domain.DueFilter{MemberID: &memberID, Status: domain.DueStatusOverdue}).
		Return([]*domain.Due{due}, nil)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/dues?status=overdue&member_id="+memberID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]interface{}
	decodeData(t, rec, &got)
	require.Len(t, got, 1)
	assert.Equal(t, "2025-01", got[0]["period"])
	assert.EqualValues(t, 9, got[0]["days_overdue"])
	assert.Equal(t, false, got[0]["has_proof"])
}

func TestDueHandler_ListRejectsBadMemberID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/dues?member_id=nope", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"member_id"}, fieldNames(decodeEnvelope(t, rec)))
}

func TestDueHandler_Overdue(t *testing.T) {
	env := newTestEnv(t)
	env.dues.On("ListOverdue", mock.Anything).Return([]*domain.Due{sampleDue(domain.DueStatusOverdue)}, nil)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/dues/overdue", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]interface{}
	decodeData(t, rec, &got)
	assert.Len(t, got, 1)
}

func TestDueHandler_GetNotFound(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()
	env.dues.On("Get", mock.Anything, id).Return(nil, customError.WrapNotFound("due", id.String()))

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/dues/"+id.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, customError.ErrCodeNotFound, decodeEnvelope(t, rec).Code)
}

func TestDueHandler_GenerateUsesDefaultDueDay(t *testing.T) {
	env := newTestEnv(t)
	summary := &domain.GenerationSummary{Period: "2025-02", CreatedCount: 2, ExistingCount: 1}

	env.generator.On("GenerateDues", mock.Anything, mock.MatchedBy(func(req *domain.GenerateDuesRequest) bool {
		return req.Month == 2 && req.Year == 2025 && req.DueDay == 10 && req.BaseValue.Equal(decimal.NewFromInt(5000))
	})).Return(summary, nil)

	rec := env.do(jsonRequest(t, http.MethodPost, "/api/v1/dues/generate", map[string]interface{}{
		"month": 2, "year": 2025, "base_value": 5000,
	}))
	require.Equal(t, http.StatusCreated, rec.Code)

	var got domain.GenerationSummary
	decodeData(t, rec, &got)
	assert.Equal(t, 2, got.CreatedCount)
	assert.Equal(t, 1, got.ExistingCount)
}

func TestDueHandler_GenerateValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{"month out of range", map[string]interface{}{"month": 13, "year": 2025, "base_value": 5000}, "month"},
		{"missing base value", map[string]interface{}{"month": 1, "year": 2025}, "base_value"},
		{"due day too late", map[string]interface{}{"month": 1, "year": 2025, "base_value": 5000, "due_day": 31}, "due_day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			rec := env.do(jsonRequest(t, http.MethodPost, "/api/v1/dues/generate", tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, fieldNames(decodeEnvelope(t, rec)), tt.field)
			env.generator.AssertNotCalled(t, "GenerateDues", mock.Anything, mock.Anything)
		})
	}
}

func TestDueHandler_SubmitProof(t *testing.T) {
	env := newTestEnv(t)
	due := sampleDue(domain.DueStatusPendingReview)
	pdf := []byte("%PDF-1.4 receipt")

	env.dues.On("SubmitProof", mock.Anything, due.ID, mock.MatchedBy(func(u *domain.ProofUpload) bool {
		return u != nil && u.Filename == "receipt.pdf" && u.Size == int64(len(pdf)) && u.Content != nil
	})).Return(due, nil)

	rec := env.do(multipartProof(t, "/api/v1/dues/"+due.ID.String()+"/proof", "receipt.pdf", pdf))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got map[string]interface{}
	decodeData(t, rec, &got)
	assert.Equal(t, string(domain.DueStatusPendingReview), got["status"])
}

func TestDueHandler_SubmitProofWithoutFile(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()

	env.dues.On("SubmitProof", mock.Anything, id, (*domain.ProofUpload)(nil)).
		Return(nil, customError.WrapValidation("a proof of payment file is required",
			customError.FieldError{Field: "proof", Error: "this field is required"}))

	rec := env.do(multipartProof(t, "/api/v1/dues/"+id.String()+"/proof", "", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"proof"}, fieldNames(decodeEnvelope(t, rec)))
}

func TestDueHandler_SubmitProofOnCurrentDue(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()

	env.dues.On("SubmitProof", mock.Anything, id, mock.Anything).
		Return(nil, customError.WrapInvalidState("due is already paid"))

	rec := env.do(multipartProof(t, "/api/v1/dues/"+id.String()+"/proof", "receipt.png", []byte("png")))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, customError.ErrCodeInvalidState, decodeEnvelope(t, rec).Code)
}

func TestDueHandler_DownloadProof(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()

	env.dues.On("OpenProof", mock.Anything, id).Return(&service.ProofFile{
		ReadCloser:  io.NopCloser(strings.NewReader("%PDF-1.4")),
		Name:        "proof.pdf",
		ContentType: "application/pdf",
	}, nil)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/dues/"+id.String()+"/proof", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "proof.pdf")
	assert.Equal(t, "%PDF-1.4", rec.Body.String())
}

func TestDueHandler_Transitions(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		method string
		err    error
		status int
	}{
		{"approve", "approve", "ApprovePayment", nil, http.StatusOK},
		{"approve paid due", "approve", "ApprovePayment", customError.WrapInvalidState("due is already paid"), http.StatusConflict},
		{"reject", "reject", "RejectPayment", nil, http.StatusOK},
		{"reject without review", "reject", "RejectPayment", customError.WrapInvalidState("due is not pending review"), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			due := sampleDue(domain.DueStatusCurrent)
			if tt.err != nil {
				env.dues.On(tt.method, mock.Anything, due.ID).Return(nil, tt.err)
			} else {
				env.dues.On(tt.method, mock.Anything, due.ID).Return(due, nil)
			}

			rec := env.do(httptest.NewRequest(http.MethodPost, "/api/v1/dues/"+due.ID.String()+"/"+tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestDueHandler_RegisterPayment(t *testing.T) {
	t.Run("empty body pays now", func(t *testing.T) {
		env := newTestEnv(t)
		due := sampleDue(domain.DueStatusCurrent)
		env.dues.On("RegisterPayment", mock.Anything, due.ID, (*time.Time)(nil)).Return(due, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/dues/"+due.ID.String()+"/payment", nil)
		rec := env.do(req)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("explicit payment date", func(t *testing.T) {
		env := newTestEnv(t)
		due := sampleDue(domain.DueStatusCurrent)
		paidAt := time.Date(2025, 1, 5, 9, 30, 0, 0, time.UTC)
		env.dues.On("RegisterPayment", mock.Anything, due.ID, mock.MatchedBy(func(at *time.Time) bool {
			return at != nil && at.Equal(paidAt)
		})).Return(due, nil)

		rec := env.do(jsonRequest(t, http.MethodPost, "/api/v1/dues/"+due.ID.String()+"/payment",
			map[string]string{"payment_date": paidAt.Format(time.RFC3339)}))
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("malformed body", func(t *testing.T) {
		env := newTestEnv(t)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/dues/"+uuid.NewString()+"/payment", strings.NewReader("{"))
		rec := env.do(req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDueHandler_InvalidPathID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodPost, "/api/v1/dues/not-a-uuid/approve", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
