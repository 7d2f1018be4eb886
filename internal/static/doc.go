// Package static serves the site's assets under /static/. Development
// responses are never cached; production responses are immutable and
// stylesheets and scripts are minified once per file version.
package static
