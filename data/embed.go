// Package data embeds the default action, event and profile catalogs.
package data

import (
	"embed"
	"io/fs"
)

//go:embed *.json
var embedded embed.FS

// FS returns the embedded catalog files
func FS() fs.FS {
	return embedded
}
