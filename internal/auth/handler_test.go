package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/procureops/procurement-portal/internal/auth"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("Auth Handler", func() {
	var (
		mockRepo *MockUserRepository
		service  *auth.Service
		handler  *auth.Handler
	)

	BeforeEach(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())

		mockRepo = &MockUserRepository{
			passwordHash: string(hash),
			userID:       12,
			isActive:     true,
			user: &auth.User{
				ID:          12,
				Email:       "ayu@corp.example",
				Permissions: []string{auth.PermViewCommittees},
			},
		}
		tokenGen := auth.NewJWTTokenGenerator(
			"access-secret-0123456789-0123456789",
			"refresh-secret-0123456789-012345678",
			15*time.Minute,
			7*24*time.Hour,
		)
		service = auth.NewService(mockRepo, tokenGen, bcrypt.MinCost)
		handler = auth.NewHandler(service)
	})

	login := func(email, password string) *httptest.ResponseRecorder {
		payload, _ := json.Marshal(map[string]string{"email": email, "password": password})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(payload))
		rec := httptest.NewRecorder()
		handler.Login(rec, req)
		return rec
	}

	Describe("Login", func() {
		It("should return a token pair for valid credentials", func() {
			rec := login("ayu@corp.example", "correct-password")
			Expect(rec.Code).To(Equal(http.StatusOK))

			var tokens auth.AuthTokens
			Expect(json.Unmarshal(rec.Body.Bytes(), &tokens)).To(Succeed())
			Expect(tokens.AccessToken).NotTo(BeEmpty())
			Expect(tokens.RefreshToken).NotTo(BeEmpty())
		})

		It("should return 401 for a wrong password", func() {
			rec := login("ayu@corp.example", "wrong")
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should return 401 for an inactive account", func() {
			mockRepo.isActive = false
			rec := login("ayu@corp.example", "correct-password")
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should return 400 for a missing password", func() {
			rec := login("ayu@corp.example", "")
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("AuthMiddleware", func() {
		var protected http.Handler

		BeforeEach(func() {
			protected = handler.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				u, ok := auth.UserFromContext(r.Context())
				Expect(ok).To(BeTrue())
				Expect(u.ID).To(Equal(int64(12)))
				w.WriteHeader(http.StatusOK)
			}))
		})

		It("should pass a valid bearer token and load the user", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "ayu@corp.example", Password: "correct-password"})
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/committees", nil)
			req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("should return 401 without a token", func() {
			req := httptest.NewRequest(http.MethodGet, "/committees", nil)
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should return 401 for a garbage token", func() {
			req := httptest.NewRequest(http.MethodGet, "/committees", nil)
			req.Header.Set("Authorization", "Bearer not-a-token")
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should return 401 for an expired token", func() {
			shortGen := auth.NewJWTTokenGenerator(
				"access-secret-0123456789-0123456789",
				"refresh-secret-0123456789-012345678",
				time.Millisecond,
				7*24*time.Hour,
			)
			shortService := auth.NewService(mockRepo, shortGen, bcrypt.MinCost)
			shortHandler := auth.NewHandler(shortService)

			expired, err := shortGen.GenerateAccessToken("12", "ayu@corp.example")
			Expect(err).NotTo(HaveOccurred())
			time.Sleep(5 * time.Millisecond)

			req := httptest.NewRequest(http.MethodGet, "/committees", nil)
			req.Header.Set("Authorization", "Bearer "+expired)
			rec := httptest.NewRecorder()

			shortHandler.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Fail("expired token must not reach the handler")
			})).ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("RBAC middleware", func() {
		var (
			rbac      *auth.RBACAuthorization
			protected http.Handler
		)

		BeforeEach(func() {
			rbac = auth.NewRBACAuthorization(nil)
			protected = rbac.RequireManageCommittees()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
		})

		It("should allow a user holding the permission", func() {
			u := &auth.User{ID: 12, Permissions: []string{auth.PermManageCommittees}}
			req := httptest.NewRequest(http.MethodPost, "/committees", nil)
			req = req.WithContext(auth.ContextWithUser(req.Context(), u))
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("should allow an admin implicitly", func() {
			u := &auth.User{ID: 1, Permissions: []string{auth.PermAdmin}}
			req := httptest.NewRequest(http.MethodPost, "/committees", nil)
			req = req.WithContext(auth.ContextWithUser(req.Context(), u))
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("should return 403 for a user lacking the permission", func() {
			u := &auth.User{ID: 12, Permissions: []string{auth.PermViewCommittees}}
			req := httptest.NewRequest(http.MethodPost, "/committees", nil)
			req = req.WithContext(auth.ContextWithUser(req.Context(), u))
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})

		It("should return 401 when no user is in context", func() {
			req := httptest.NewRequest(http.MethodPost, "/committees", nil)
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
