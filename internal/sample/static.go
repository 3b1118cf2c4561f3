package sample

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

const DefaultStaticPrefix = "/static"

//go:embed static
var staticFiles embed.FS

// staticContentTypes pins the Content-Type of static resources by extension.
// Without an entry the file server guesses, adding a charset for text.
var staticContentTypes = map[string]string{
	".txt": "text/plain",
}

// ServeStatic serves fsys under prefix. Files with a pinned content type are
// sent with exactly that type.
func ServeStatic(prefix string, fsys static.ServeFileSystem) gin.HandlerFunc {
	serve := static.Serve(prefix, fsys)
	return func(c *gin.Context) {
		urlPath := c.Request.URL.Path
		if contentType, ok := staticContentTypes[path.Ext(urlPath)]; ok && fsys.Exists(prefix, urlPath) {
			c.Header("Content-Type", contentType)
		}
		serve(c)
	}
}

// StaticFiles returns the embedded static resources for static.Serve.
func StaticFiles() static.ServeFileSystem {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// The directory is embedded at build time.
		panic(err)
	}
	return embeddedFileSystem{FileSystem: http.FS(sub)}
}

type embeddedFileSystem struct {
	http.FileSystem
}

// Exists reports whether urlPath names a regular file under prefix.
// Directories don't exist, so nothing is ever listed.
func (e embeddedFileSystem) Exists(prefix string, urlPath string) bool {
	name, ok := strings.CutPrefix(urlPath, strings.TrimSuffix(prefix, "/"))
	if !ok || !strings.HasPrefix(name, "/") {
		return false
	}
	f, err := e.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()
	info, err := f.Stat()
	return err == nil && !info.IsDir()
}
