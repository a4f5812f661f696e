// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package render_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-auth/internal/platform/render"
)

func testFiles() fstest.MapFS {
	return fstest.MapFS{
		"layout.html":       {Data: []byte(`<main>{{ content|safe }}</main>`)},
		"pages/hello.html":  {Data: []byte(`Hello {{ name }}{% if errors.email %} ({{ errors.email }}){% endif %}`)},
		"pages/ignored.txt": {Data: []byte(`{{ broken`)},
	}
}

/*
TestRenderer_Render wraps the page in the layout and escapes variables.
*/
func TestRenderer_Render(t *testing.T) {
	renderer, err := render.New(testFiles(), "layout")
	require.NoError(t, err)

	assert.True(t, renderer.Has("hello"))
	assert.False(t, renderer.Has("layout"))

	page, err := renderer.Render("hello", render.Data{
		"name":   "<b>Alice</b>",
		"errors": map[string]string{"email": "taken"},
	})
	require.NoError(t, err)

	assert.Equal(t, "<main>Hello &lt;b&gt;Alice&lt;/b&gt; (taken)</main>", string(page))
}

/*
TestRenderer_NoLayout renders the bare template.
*/
func TestRenderer_NoLayout(t *testing.T) {
	renderer, err := render.New(testFiles(), "")
	require.NoError(t, err)

	page, err := renderer.Render("hello", render.Data{"name": "Bob"})
	require.NoError(t, err)
	assert.Equal(t, "Hello Bob", string(page))
}

/*
TestRenderer_Errors covers unknown templates and layouts and parse failures.
*/
func TestRenderer_Errors(t *testing.T) {
	_, err := render.New(testFiles(), "missing")
	assert.Error(t, err)

	_, err = render.New(fstest.MapFS{"bad.html": {Data: []byte(`{% if %}`)}}, "")
	assert.Error(t, err)

	renderer, err := render.New(testFiles(), "layout")
	require.NoError(t, err)
	_, err = renderer.Render("nope", nil)
	assert.Error(t, err)
}
