// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package render compiles pongo2 templates from an [fs.FS] and renders them
inside a shared layout.

Every file ending in .html becomes a template named after its base name
without the extension. The layout template receives the rendered page as
the "content" variable and must print it with the safe filter.

Templates are parsed once at construction, so a broken template fails the
process at startup rather than on the first request.
*/
package render

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/flosch/pongo2/v6"
)

// templateExt is the file extension of renderable templates.
const templateExt = ".html"

// Data is the variable set passed to a template.
type Data map[string]any

// Renderer holds the compiled templates of a single template tree.
type Renderer struct {
	templates map[string]*pongo2.Template
	layout    *pongo2.Template
}

// New parses every template in files. An empty layout disables wrapping.
func New(files fs.FS, layout string) (*Renderer, error) {
	renderer := &Renderer{templates: make(map[string]*pongo2.Template)}

	err := fs.WalkDir(files, ".", func(filePath string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !strings.HasSuffix(filePath, templateExt) {
			return nil
		}

		source, err := fs.ReadFile(files, filePath)
		if err != nil {
			return err
		}

		compiled, err := pongo2.FromString(string(source))
		if err != nil {
			return fmt.Errorf("render: failed to parse %s: %w", filePath, err)
		}

		renderer.templates[strings.TrimSuffix(path.Base(filePath), templateExt)] = compiled
		return nil
	})
	if err != nil {
		return nil, err
	}

	if layout != "" {
		compiled, ok := renderer.templates[layout]
		if !ok {
			return nil, fmt.Errorf("render: layout %q not found", layout)
		}
		renderer.layout = compiled
		delete(renderer.templates, layout)
	}

	return renderer, nil
}

// Has reports whether a template with the given name exists.
func (renderer *Renderer) Has(name string) bool {
	_, ok := renderer.templates[name]
	return ok
}

// Render executes the named template and wraps it in the layout.
func (renderer *Renderer) Render(name string, data Data) ([]byte, error) {
	compiled, ok := renderer.templates[name]
	if !ok {
		return nil, fmt.Errorf("render: template %q not found", name)
	}

	context := pongo2.Context{}
	for key, value := range data {
		context[key] = value
	}

	content, err := compiled.Execute(context)
	if err != nil {
		return nil, fmt.Errorf("render: failed to execute %s: %w", name, err)
	}

	if renderer.layout == nil {
		return []byte(content), nil
	}

	context["content"] = content
	page, err := renderer.layout.Execute(context)
	if err != nil {
		return nil, fmt.Errorf("render: failed to execute layout for %s: %w", name, err)
	}

	return []byte(page), nil
}
