package registry

import (
	"embed"
	"io/fs"
)

//go:embed forms/*.yaml
var embeddedForms embed.FS

// EmbeddedFS returns the bundled form definitions.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedForms, "forms")
	if err != nil {
		// the embed directive guarantees the directory exists
		panic(err)
	}
	return sub
}

// Default loads the bundled definitions: the sign-in, sign-up, password,
// profile and project forms.
func Default() (*Registry, error) {
	return LoadFS(EmbeddedFS())
}
