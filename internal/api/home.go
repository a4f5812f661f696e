// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"net/http"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
	"github.com/taibuivan/yomira-auth/internal/platform/render"
	"github.com/taibuivan/yomira-auth/internal/platform/respond"
	"github.com/taibuivan/yomira-auth/internal/users/session"
	"github.com/taibuivan/yomira-auth/web"
)

// Pages renders a named page template.
type Pages interface {
	Render(name string, data render.Data) ([]byte, error)
}

// PageHandler serves the static and member pages outside the auth flows.
type PageHandler struct {
	pages Pages
}

// NewPageHandler creates a [PageHandler].
func NewPageHandler(pages Pages) *PageHandler {
	return &PageHandler{pages: pages}
}

// Home handles GET / for authenticated members.
func (handler *PageHandler) Home(writer http.ResponseWriter, request *http.Request) {
	data := render.Data{}
	sess := session.FromContext(request.Context())
	if sess != nil {
		if identity, ok := sess.Identity(); ok {
			data["name"] = identity.Name
			data["email"] = identity.Email
		}
	}
	handler.render(writer, request, sess, web.PageHome, data)
}

// Terms handles GET /terms-and-conditions.
func (handler *PageHandler) Terms(writer http.ResponseWriter, request *http.Request) {
	handler.render(writer, request, session.FromContext(request.Context()), web.PageTerms, render.Data{})
}

// render writes a page, draining pending flashes when a session exists.
func (handler *PageHandler) render(writer http.ResponseWriter, request *http.Request, sess *session.Handle, name string, data render.Data) {
	if sess != nil {
		data["flashes"] = sess.Flashes()
	}

	body, err := handler.pages.Render(name, data)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	if sess != nil {
		if err := sess.Commit(request.Context()); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	respond.HTML(writer, http.StatusOK, body)
}
