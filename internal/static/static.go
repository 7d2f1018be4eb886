package static

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
	minjs "github.com/tdewolff/minify/v2/js"
)

const (
	Prefix = "/static/"

	cacheNoStore   = "no-store"
	cacheImmutable = "public, max-age=31536000, immutable"
)

var minifiable = map[string]string{
	".css": "text/css",
	".js":  "application/javascript",
}

type cacheEntry struct {
	modTime time.Time
	content []byte
}

// Server serves files from an fs.FS. Paths are relative to the FS root, so
// mount it behind http.StripPrefix(Prefix, ...).
type Server struct {
	assets fs.FS
	dev    bool
	logger *slog.Logger

	minifier *minify.M
	mu       sync.RWMutex
	cache    map[string]cacheEntry
}

func New(assets fs.FS, dev bool, logger *slog.Logger) *Server {
	s := &Server{
		assets: assets,
		dev:    dev,
		logger: logger,
	}

	if !dev {
		m := minify.New()
		m.AddFunc("text/css", mincss.Minify)
		m.AddFunc("application/javascript", minjs.Minify)
		s.minifier = m
		s.cache = make(map[string]cacheEntry)
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" || !fs.ValidPath(name) {
		http.NotFound(w, r)
		return
	}

	info, err := fs.Stat(s.assets, name)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	content, err := s.load(name, info)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		s.logger.Error("Failed to read static asset", slog.String("path", name), slog.Any("err", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if ctype := mime.TypeByExtension(path.Ext(name)); ctype != "" {
		w.Header().Set("Content-Type", ctype)
	}

	if s.dev {
		w.Header().Set("Cache-Control", cacheNoStore)
	} else {
		w.Header().Set("Cache-Control", cacheImmutable)
	}

	http.ServeContent(w, r, name, info.ModTime(), bytes.NewReader(content))
}

func (s *Server) load(name string, info fs.FileInfo) ([]byte, error) {
	mediatype, ok := minifiable[path.Ext(name)]
	if s.minifier == nil || !ok || strings.Contains(path.Base(name), ".min.") {
		return fs.ReadFile(s.assets, name)
	}

	s.mu.RLock()
	entry, hit := s.cache[name]
	s.mu.RUnlock()
	if hit && entry.modTime.Equal(info.ModTime()) {
		return entry.content, nil
	}

	original, err := fs.ReadFile(s.assets, name)
	if err != nil {
		return nil, err
	}

	content, err := s.minifier.Bytes(mediatype, original)
	if err != nil {
		s.logger.Warn("Failed to minify asset, serving original",
			slog.String("path", name),
			slog.Any("err", err))
		content = original
	}

	s.mu.Lock()
	s.cache[name] = cacheEntry{modTime: info.ModTime(), content: content}
	s.mu.Unlock()

	return content, nil
}
