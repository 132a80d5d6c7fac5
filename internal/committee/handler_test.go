package committee_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/procureops/procurement-portal/internal"
	"github.com/procureops/procurement-portal/internal/auth"
	"github.com/procureops/procurement-portal/internal/committee"
)

// MockService implements committee.ServiceAPI for testing
type MockService struct {
	created       *committee.CommitteeFormDTO
	createdLetter *committee.LetterUpload
	removeErr     error
	letterData    []byte
	letterMeta    *committee.Letter
}

func (m *MockService) ListCommittees(limit, offset int) ([]*committee.Committee, error) {
	return []*committee.Committee{}, nil
}

func (m *MockService) GetCommittee(id int64) (*committee.Committee, error) {
	return &committee.Committee{ID: id}, nil
}

func (m *MockService) CreateCommittee(dto *committee.CommitteeFormDTO, letter *committee.LetterUpload) (*committee.Committee, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}
	m.created = dto
	m.createdLetter = letter
	return &committee.Committee{ID: 1, Name: dto.Name}, nil
}

func (m *MockService) UpdateCommittee(id int64, dto *committee.CommitteeFormDTO, letter *committee.LetterUpload) (*committee.Committee, error) {
	return &committee.Committee{ID: id, Name: dto.Name}, nil
}

func (m *MockService) DeleteCommittee(id int64) error {
	return nil
}

func (m *MockService) AddMember(ctx context.Context, committeeID int64, dto *committee.AddMemberDTO) (*committee.Member, error) {
	return &committee.Member{CommitteeID: committeeID, EmployeeID: dto.EmployeeID}, nil
}

func (m *MockService) RemoveMember(committeeID int64, employeeID string) error {
	return m.removeErr
}

func (m *MockService) OpenLetter(committeeID int64) (io.ReadCloser, int64, *committee.Letter, error) {
	if m.letterMeta == nil {
		return nil, 0, nil, internal.ErrLetterNotFound
	}
	return io.NopCloser(bytes.NewReader(m.letterData)), int64(len(m.letterData)), m.letterMeta, nil
}

func multipartForm(members string, withLetter bool) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	writer.WriteField("name", "Laptop Tender Evaluation")
	writer.WriteField("purpose", "Evaluate bids")
	writer.WriteField("committee_type", "evaluation")
	writer.WriteField("formation_date", "2024-01-10")
	writer.WriteField("procurement_plan", "none")
	if members != "" {
		writer.WriteField("members", members)
	}
	if withLetter {
		part, _ := writer.CreateFormFile("formation_letter", "formation.pdf")
		part.Write([]byte("%PDF-1.4"))
	}
	writer.Close()

	return body, writer.FormDataContentType()
}

const validMembers = `[{"employee_id":"EMP-100001","name":"Ayu Lestari","email":"ayu@corp.example","role":"chairperson"}]`

var _ = Describe("Committee Handler", func() {
	var (
		mockService *MockService
		handler     *committee.Handler
		router      *chi.Mux
	)

	authenticated := func(r *http.Request) *http.Request {
		u := &auth.User{ID: 12, Email: "officer@procureops.local", Permissions: []string{auth.PermManageCommittees}}
		return r.WithContext(auth.ContextWithUser(r.Context(), u))
	}

	BeforeEach(func() {
		mockService = &MockService{}
		handler = committee.NewHandler(mockService, 1<<20)
		router = chi.NewRouter()
		router.Post("/committees", handler.CreateCommittee)
		router.Delete("/committees/{id}/members/{employeeID}", handler.RemoveMember)
		router.Get("/committees/{id}/formation-letter", handler.DownloadFormationLetter)
	})

	Describe("CreateCommittee", func() {
		It("should create from a multipart form with a letter", func() {
			body, contentType := multipartForm(validMembers, true)
			req := httptest.NewRequest(http.MethodPost, "/committees", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, authenticated(req))

			Expect(rec.Code).To(Equal(http.StatusCreated))
			Expect(mockService.created.Members).To(HaveLen(1))
			Expect(mockService.createdLetter).NotTo(BeNil())
			Expect(mockService.createdLetter.FileName).To(Equal("formation.pdf"))
		})

		It("should accept a form without a letter", func() {
			body, contentType := multipartForm(validMembers, false)
			req := httptest.NewRequest(http.MethodPost, "/committees", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, authenticated(req))

			Expect(rec.Code).To(Equal(http.StatusCreated))
			Expect(mockService.createdLetter).To(BeNil())
		})

		It("should require an authenticated user", func() {
			body, contentType := multipartForm(validMembers, false)
			req := httptest.NewRequest(http.MethodPost, "/committees", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should surface validation errors as 400 with field details", func() {
			body, contentType := multipartForm("", false)
			req := httptest.NewRequest(http.MethodPost, "/committees", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, authenticated(req))

			Expect(rec.Code).To(Equal(http.StatusBadRequest))

			var resp struct {
				Error struct {
					Code    string `json:"code"`
					Details struct {
						Errors []struct {
							Field string `json:"field"`
						} `json:"errors"`
					} `json:"details"`
				} `json:"error"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Error.Code).To(Equal("VALIDATION_FAILED"))
			Expect(resp.Error.Details.Errors).NotTo(BeEmpty())
		})

		It("should reject a malformed members part", func() {
			body, contentType := multipartForm("{not json", false)
			req := httptest.NewRequest(http.MethodPost, "/committees", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, authenticated(req))

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("RemoveMember", func() {
		It("should return no content on success", func() {
			req := httptest.NewRequest(http.MethodDelete, "/committees/3/members/EMP-100001", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, authenticated(req))

			Expect(rec.Code).To(Equal(http.StatusNoContent))
		})

		It("should map a missing member to 404", func() {
			mockService.removeErr = internal.ErrMemberNotFound
			req := httptest.NewRequest(http.MethodDelete, "/committees/3/members/EMP-404404", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, authenticated(req))

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("should reject a non-numeric committee id", func() {
			req := httptest.NewRequest(http.MethodDelete, "/committees/abc/members/EMP-100001", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, authenticated(req))

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("DownloadFormationLetter", func() {
		It("should stream the letter with download headers", func() {
			mockService.letterData = []byte("%PDF-1.4 letter")
			mockService.letterMeta = &committee.Letter{
				FileName:    "formation.pdf",
				ContentType: "application/pdf",
			}

			req := httptest.NewRequest(http.MethodGet, "/committees/3/formation-letter", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, authenticated(req))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("application/pdf"))
			Expect(rec.Header().Get("Content-Disposition")).To(ContainSubstring(`filename="formation.pdf"`))
			Expect(rec.Body.Bytes()).To(Equal([]byte("%PDF-1.4 letter")))
		})

		It("should map a missing letter to 404", func() {
			req := httptest.NewRequest(http.MethodGet, "/committees/3/formation-letter", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, authenticated(req))

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})
})
