// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package web embeds the HTML pages served by the application.
package web

import (
	"embed"
	"io/fs"

	"github.com/taibuivan/yomira-auth/internal/platform/render"
)

// Page names shared with the handlers.
const (
	PageHome  = "home"
	PageTerms = "terms"
)

//go:embed templates/*.html
var files embed.FS

// Pages compiles the embedded page templates inside the site layout.
func Pages() (*render.Renderer, error) {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		return nil, err
	}
	return render.New(sub, "layout")
}
