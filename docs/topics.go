// Package docs embeds the user guide shipped inside the sw binary.
//
// Every *.md file in this directory is one guide topic, addressed by its
// base name. readme.md is the index listing the others; it is what the
// topic command shows when called without arguments, and it is not a
// topic itself.
package docs

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

//go:embed *.md
var guide embed.FS

// Index is the name of the topic list page.
const Index = "readme"

// Names returns the topic names in alphabetical order, the index excluded.
func Names() []string {
	files, _ := fs.Glob(guide, "*.md")
	var names []string
	for _, file := range files {
		if name := strings.TrimSuffix(file, ".md"); name != Index {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Topic returns the markdown source of one topic.
func Topic(name string) (string, error) {
	content, err := guide.ReadFile(name + ".md")
	if err != nil {
		return "", fmt.Errorf("no topic %q, pick one of: %s", name, strings.Join(Names(), ", "))
	}
	return string(content), nil
}
