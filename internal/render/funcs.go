package render

import (
	"crypto/md5"
	"encoding/hex"
	"html/template"
	"io/fs"
	"strings"

	"github.com/Masterminds/sprig/v3"
)

const staticPrefix = "/static/"

func funcMap(assets fs.FS) template.FuncMap {
	funcs := sprig.FuncMap()
	funcs["asset"] = func(path string) string {
		return versioned(assets, path)
	}
	return funcs
}

// versioned appends a short content hash to a /static/ URL so browsers
// refetch the asset when it changes. Paths it cannot resolve are returned
// untouched.
func versioned(assets fs.FS, path string) string {
	if assets == nil || !strings.HasPrefix(path, staticPrefix) {
		return path
	}

	rel := strings.TrimPrefix(path, staticPrefix)
	content, err := fs.ReadFile(assets, rel)
	if err != nil {
		return path
	}

	sum := md5.Sum(content)
	return path + "?v=" + hex.EncodeToString(sum[:])[:6]
}
