// web/web.go
//
// Package web embeds the seed content and static assets served by the
// app. A content.dir config entry swaps the data documents for a
// directory on disk; the static assets always come from the binary.
package web

import (
	"embed"
	"io/fs"
)

//go:embed data static manifest.webmanifest
var assets embed.FS

// DataFS returns the embedded seed content documents.
func DataFS() fs.FS {
	sub, err := fs.Sub(assets, "data")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return sub
}

// StaticFS returns the embedded static asset tree rooted at static/.
func StaticFS() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Manifest returns the web app manifest bytes.
func Manifest() []byte {
	data, err := assets.ReadFile("manifest.webmanifest")
	if err != nil {
		panic(err)
	}
	return data
}
