// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away form parsing and query extraction so that handlers read
submitted values the same way everywhere, with consistent error handling.
*/
package requestutil

import (
	"net/http"
	"strings"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
)

// maxFormBytes caps the size of an urlencoded form body.
const maxFormBytes = 64 << 10

// ErrInvalidForm is returned when the request body cannot be parsed as a form.
var ErrInvalidForm = apperr.ValidationError("Invalid form payload")

/*
ParseForm reads and parses the urlencoded body of a POST request.

Parameters:
  - writer: http.ResponseWriter (used to enforce the body size limit)
  - request: *http.Request

Returns:
  - error: ErrInvalidForm if the body is malformed or too large, otherwise nil
*/
func ParseForm(writer http.ResponseWriter, request *http.Request) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxFormBytes)
	if err := request.ParseForm(); err != nil {
		return ErrInvalidForm
	}
	return nil
}

/*
Submitted reports whether the named submit field is present in the POST body.

A form counts as submitted only when its button name travels with it, so a
bare POST without the button is treated like a GET.
*/
func Submitted(request *http.Request, field string) bool {
	if request.Method != http.MethodPost || request.PostForm == nil {
		return false
	}
	_, ok := request.PostForm[field]
	return ok
}

/*
PostValue returns the raw value of a POST field, or an empty string.
*/
func PostValue(request *http.Request, field string) string {
	return request.PostFormValue(field)
}

/*
Checked reports whether a checkbox field carries a truthy value.
*/
func Checked(request *http.Request, field string) bool {
	switch strings.ToLower(strings.TrimSpace(request.PostFormValue(field))) {
	case "", "0", "false", "off":
		return false
	default:
		return true
	}
}

/*
Query retrieves a named query string parameter from the request URL.
*/
func Query(request *http.Request, name string) string {
	return request.URL.Query().Get(name)
}
