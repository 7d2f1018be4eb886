package site_test

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/portfolio-site/internal/site"
)

var _ = Describe("Route table", func() {
	var (
		calls int
		home  http.Handler
		mux   *http.ServeMux
	)

	BeforeEach(func() {
		calls = 0
		home = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Write([]byte("home"))
		})
		mux = http.NewServeMux()
		site.Register(mux, site.Routes(home), nil)
	})

	It("should contain exactly one entry", func() {
		routes := site.Routes(home)
		Expect(routes).To(HaveLen(1))
		Expect(routes[0].Method).To(Equal(http.MethodGet))
		Expect(routes[0].Pattern).To(Equal("/"))
		Expect(routes[0].Name).To(Equal(site.RouteHome))
	})

	It("should invoke the handler for GET /", func() {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(Equal("home"))
		Expect(calls).To(Equal(1))
	})

	It("should ignore the query string", func() {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?utm_source=mail", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(calls).To(Equal(1))
	})

	DescribeTable("should not invoke the handler for other paths",
		func(path string) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(calls).To(BeZero())
		},
		Entry("page", "/about"),
		Entry("nested", "/projects/1"),
		Entry("template file", "/index.html"),
	)

	DescribeTable("should not invoke the handler for other methods",
		func(method string) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(method, "/", nil))

			Expect(w.Code).To(Equal(http.StatusMethodNotAllowed))
			Expect(calls).To(BeZero())
		},
		Entry("POST", http.MethodPost),
		Entry("PUT", http.MethodPut),
		Entry("DELETE", http.MethodDelete),
	)

	It("should wrap handlers with the route name", func() {
		var names []string
		wrapped := http.NewServeMux()
		site.Register(wrapped, site.Routes(home), func(name string, next http.Handler) http.Handler {
			names = append(names, name)
			return next
		})

		Expect(names).To(Equal([]string{site.RouteHome}))
	})
})
