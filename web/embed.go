// Package web embeds the catalog browser served at the server root.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:dist
var distFS embed.FS

// DistFS returns the embedded assets rooted at dist, so files are opened
// as "index.html" rather than "dist/index.html".
func DistFS() (fs.FS, error) {
	return fs.Sub(distFS, "dist")
}
