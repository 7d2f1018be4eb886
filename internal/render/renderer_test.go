package render_test

import (
	"errors"
	"testing/fstest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/portfolio-site/internal/render"
)

const indexHTML = `<!DOCTYPE html>
<html>
  <head><title>Portfolio</title></head>
  <body>
    <h1>Hello</h1>
  </body>
</html>
`

var _ = Describe("TemplateRenderer", func() {
	var templates fstest.MapFS

	BeforeEach(func() {
		templates = fstest.MapFS{
			"index.html": {Data: []byte(indexHTML)},
		}
	})

	Describe("Render", func() {
		It("should render a static template byte for byte", func() {
			r := render.New(templates)
			out, err := r.Render("index.html", map[string]any{})
			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).To(Equal(indexHTML))
		})

		It("should treat a nil context as empty", func() {
			r := render.New(templates)
			out, err := r.Render("index.html", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).To(Equal(indexHTML))
		})

		It("should produce identical output on repeated calls", func() {
			r := render.New(templates)
			first, err := r.Render("index.html", nil)
			Expect(err).NotTo(HaveOccurred())
			second, err := r.Render("index.html", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
		})

		It("should pick up template edits without a restart", func() {
			r := render.New(templates)
			templates["index.html"] = &fstest.MapFile{Data: []byte("<p>updated</p>")}

			out, err := r.Render("index.html", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).To(Equal("<p>updated</p>"))
		})

		It("should render templates in subdirectories", func() {
			templates["pages/about.html"] = &fstest.MapFile{Data: []byte("<p>about</p>")}
			r := render.New(templates)

			out, err := r.Render("pages/about.html", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).To(Equal("<p>about</p>"))
		})

		It("should treat glob characters in the name literally", func() {
			templates["page[1].html"] = &fstest.MapFile{Data: []byte("<p>one</p>")}
			templates["page1.html"] = &fstest.MapFile{Data: []byte("<p>wrong</p>")}
			r := render.New(templates)

			out, err := r.Render("page[1].html", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).To(Equal("<p>one</p>"))
		})

		It("should expose sprig helpers", func() {
			templates["index.html"] = &fstest.MapFile{Data: []byte(`{{ "hello" | upper }}`)}
			r := render.New(templates)

			out, err := r.Render("index.html", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).To(Equal("HELLO"))
		})
	})

	Describe("asset helper", func() {
		It("should append a content hash to known static assets", func() {
			templates["index.html"] = &fstest.MapFile{Data: []byte(`<script src="{{ asset "/static/js/dna.js" }}"></script>`)}
			assets := fstest.MapFS{"js/dna.js": {Data: []byte("console.log(1)")}}
			r := render.New(templates, render.WithAssets(assets))

			out, err := r.Render("index.html", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).To(MatchRegexp(`^<script src="/static/js/dna\.js\?v=[0-9a-f]{6}"></script>$`))
		})

		It("should leave unknown assets untouched", func() {
			templates["index.html"] = &fstest.MapFile{Data: []byte(`{{ asset "/static/missing.js" }}`)}
			r := render.New(templates, render.WithAssets(fstest.MapFS{}))

			out, err := r.Render("index.html", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).To(Equal("/static/missing.js"))
		})
	})

	Describe("minification", func() {
		It("should minify output when enabled", func() {
			r := render.New(templates, render.WithMinify(true))
			out, err := r.Render("index.html", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(len(out)).To(BeNumerically("<", len(indexHTML)))
			Expect(string(out)).To(ContainSubstring("<h1>Hello</h1>"))
		})

		It("should leave output untouched when disabled", func() {
			r := render.New(templates, render.WithMinify(false))
			out, err := r.Render("index.html", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).To(Equal(indexHTML))
		})
	})

	Describe("failures", func() {
		It("should report a missing template", func() {
			r := render.New(fstest.MapFS{})
			out, err := r.Render("index.html", nil)
			Expect(out).To(BeNil())

			var renderErr *render.TemplateRenderingError
			Expect(errors.As(err, &renderErr)).To(BeTrue())
			Expect(renderErr.Name).To(Equal("index.html"))
			Expect(errors.Is(err, render.ErrTemplateNotFound)).To(BeTrue())
			Expect(render.IsRenderingError(err)).To(BeTrue())
		})

		It("should report a malformed template", func() {
			templates["index.html"] = &fstest.MapFile{Data: []byte(`{{ if }}`)}
			r := render.New(templates)

			_, err := r.Render("index.html", nil)
			Expect(render.IsRenderingError(err)).To(BeTrue())
			Expect(errors.Is(err, render.ErrTemplateNotFound)).To(BeFalse())
			Expect(err.Error()).To(ContainSubstring("parse"))
		})

		It("should report an execution failure", func() {
			templates["index.html"] = &fstest.MapFile{Data: []byte(`{{ template "missing" }}`)}
			r := render.New(templates)

			_, err := r.Render("index.html", nil)
			Expect(render.IsRenderingError(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("execute"))
		})
	})
})
