// Package fixtures embeds example AIM API replies, one file per method, as
// published in the API documentation. They back the fixture transport in tests
// and in the CLI's offline mode.
package fixtures

import (
	"embed"
	"io/fs"
	"slices"
	"strings"
)

//go:embed xml/*.xml
var files embed.FS

// FS returns the replies rooted so that "login.xml" opens the login reply.
func FS() fs.FS {
	sub, err := fs.Sub(files, "xml")
	if err != nil {
		panic(err) // the embed pattern guarantees the directory exists
	}

	return sub
}

// Names returns the reply file names, sorted.
func Names() []string {
	entries, _ := fs.ReadDir(files, "xml")

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".xml") {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	return names
}
