package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/procureops/procurement-portal/internal/transport/middleware"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

var _ = Describe("CORS", func() {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	serve := func(allowedOrigins, origin, method string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/api/v1/committees", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		rec := httptest.NewRecorder()
		middleware.CORS(allowedOrigins)(okHandler).ServeHTTP(rec, req)
		return rec
	}

	Context("with a restricted origin list", func() {
		const allowed = "https://portal.procureops.example, https://staging.procureops.example"

		It("should echo a configured origin", func() {
			rec := serve(allowed, "https://portal.procureops.example", http.MethodGet)
			Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://portal.procureops.example"))
			Expect(rec.Header().Values("Vary")).To(ContainElement("Origin"))
		})

		It("should send no CORS headers to an origin outside the list", func() {
			rec := serve(allowed, "http://untrusted.example", http.MethodGet)
			Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
			Expect(rec.Header().Get("Access-Control-Allow-Methods")).To(BeEmpty())
		})

		It("should ignore a trailing slash on the configured origin", func() {
			rec := serve("https://portal.procureops.example/", "https://portal.procureops.example", http.MethodGet)
			Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://portal.procureops.example"))
		})

		It("should answer preflight requests with 204", func() {
			rec := serve(allowed, "https://portal.procureops.example", http.MethodOptions)
			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(rec.Header().Get("Access-Control-Allow-Methods")).To(ContainSubstring("DELETE"))
		})
	})

	Context("with the wildcard", func() {
		It("should allow any origin", func() {
			rec := serve("*", "http://anywhere.example", http.MethodGet)
			Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
		})
	})
})
