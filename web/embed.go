// Package web bundles the browser front end.
package web

import (
	"embed"
	"io/fs"
)

//go:embed public
var files embed.FS

// Public returns the bundle rooted at public/
func Public() fs.FS {
	sub, err := fs.Sub(files, "public")
	if err != nil {
		panic(err)
	}
	return sub
}
