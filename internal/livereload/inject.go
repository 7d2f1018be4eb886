package livereload

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

const clientScript = `<script>(function(){var p=location.protocol==="https:"?"wss://":"ws://";` +
	`var ws=new WebSocket(p+location.host+"` + Path + `");` +
	`ws.onmessage=function(e){if(e.data==="reload"){location.reload();}};})();</script>`

type bufferedWriter struct {
	header     http.Header
	statusCode int
	body       bytes.Buffer
}

func (b *bufferedWriter) Header() http.Header {
	return b.header
}

func (b *bufferedWriter) WriteHeader(code int) {
	if b.statusCode == 0 {
		b.statusCode = code
	}
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	if b.statusCode == 0 {
		b.statusCode = http.StatusOK
	}
	return b.body.Write(p)
}

// Inject appends the live reload client to successful HTML responses from
// next, just before the closing body tag when there is one.
func Inject(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := &bufferedWriter{header: w.Header()}
		next.ServeHTTP(buf, r)

		if buf.statusCode == 0 {
			buf.statusCode = http.StatusOK
		}

		body := buf.body.Bytes()
		if buf.statusCode == http.StatusOK && strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
			body = injectScript(body)
			w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		}

		w.WriteHeader(buf.statusCode)
		if _, err := w.Write(body); err != nil {
			logger.Debug("Failed to write response", slog.Any("err", err))
		}
	})
}

func injectScript(body []byte) []byte {
	idx := bytes.LastIndex(bytes.ToLower(body), []byte("</body>"))
	if idx < 0 {
		return append(body, clientScript...)
	}

	out := make([]byte, 0, len(body)+len(clientScript))
	out = append(out, body[:idx]...)
	out = append(out, clientScript...)
	out = append(out, body[idx:]...)
	return out
}
