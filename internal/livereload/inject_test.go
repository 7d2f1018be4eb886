package livereload_test

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/portfolio-site/internal/livereload"
)

var _ = Describe("Inject", func() {
	serve := func(contentType string, status int, body string) *httptest.ResponseRecorder {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", contentType)
			w.WriteHeader(status)
			w.Write([]byte(body))
		})

		w := httptest.NewRecorder()
		livereload.Inject(next, slog.New(slog.DiscardHandler)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		return w
	}

	It("should insert the client before the closing body tag", func() {
		w := serve("text/html; charset=utf-8", http.StatusOK, "<html><body><h1>Hi</h1></body></html>")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchRegexp(`^<html><body><h1>Hi</h1><script>.*__livereload.*</script></body></html>$`))
		Expect(w.Header().Get("Content-Length")).To(Equal(strconv.Itoa(w.Body.Len())))
	})

	It("should append the client when there is no body tag", func() {
		w := serve("text/html", http.StatusOK, "<p>fragment</p>")
		Expect(w.Body.String()).To(HavePrefix("<p>fragment</p><script>"))
	})

	It("should leave other content types alone", func() {
		w := serve("application/javascript", http.StatusOK, "var a;")
		Expect(w.Body.String()).To(Equal("var a;"))
	})

	It("should leave error responses alone", func() {
		w := serve("text/html", http.StatusInternalServerError, "<body>oops</body>")

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).To(Equal("<body>oops</body>"))
	})

	It("should log a failed write", func() {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<body></body>"))
		})

		var logs bytes.Buffer
		log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

		w := &brokenWriter{ResponseRecorder: httptest.NewRecorder()}
		livereload.Inject(next, log).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(logs.String()).To(ContainSubstring("Failed to write response"))
		Expect(logs.String()).To(ContainSubstring("connection reset"))
	})
})

type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (b *brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}
