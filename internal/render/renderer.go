package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"

	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
	minhtml "github.com/tdewolff/minify/v2/html"
	minjs "github.com/tdewolff/minify/v2/js"
)

// Renderer turns a named template and a context into output bytes.
type Renderer interface {
	Render(name string, data any) ([]byte, error)
}

type Option func(*TemplateRenderer)

// WithAssets gives templates access to the static asset tree through the
// asset helper.
func WithAssets(assets fs.FS) Option {
	return func(r *TemplateRenderer) {
		r.assets = assets
	}
}

// WithMinify enables HTML minification of rendered output.
func WithMinify(enabled bool) Option {
	return func(r *TemplateRenderer) {
		if !enabled {
			r.minifier = nil
			return
		}
		m := minify.New()
		m.AddFunc("text/html", minhtml.Minify)
		m.AddFunc("text/css", mincss.Minify)
		m.AddFunc("application/javascript", minjs.Minify)
		r.minifier = m
	}
}

// TemplateRenderer renders html/template files stored in an fs.FS. It holds
// no per-request state and is safe for concurrent use.
type TemplateRenderer struct {
	templates fs.FS
	assets    fs.FS
	minifier  *minify.M
}

func New(templates fs.FS, opts ...Option) *TemplateRenderer {
	r := &TemplateRenderer{templates: templates}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *TemplateRenderer) Render(name string, data any) ([]byte, error) {
	if data == nil {
		data = map[string]any{}
	}

	content, err := fs.ReadFile(r.templates, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = ErrTemplateNotFound
		}
		return nil, &TemplateRenderingError{Name: name, Err: err}
	}

	// Parse rather than ParseFS: the name is a path, not a glob.
	tmpl, err := template.New(path.Base(name)).Funcs(funcMap(r.assets)).Parse(string(content))
	if err != nil {
		return nil, &TemplateRenderingError{Name: name, Err: fmt.Errorf("parse: %w", err)}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, path.Base(name), data); err != nil {
		return nil, &TemplateRenderingError{Name: name, Err: fmt.Errorf("execute: %w", err)}
	}

	if r.minifier == nil {
		return buf.Bytes(), nil
	}

	out, err := r.minifier.Bytes("text/html", buf.Bytes())
	if err != nil {
		return nil, &TemplateRenderingError{Name: name, Err: fmt.Errorf("minify: %w", err)}
	}

	return out, nil
}
