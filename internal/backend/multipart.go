package backend

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/pribylovaa/linked-feed/internal/models"
)

// form — тело multipart/form-data.
type form struct {
	buf bytes.Buffer
	w   *multipart.Writer
}

func newForm() *form {
	f := &form{}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

func (f *form) field(name, value string) error {
	return f.w.WriteField(name, value)
}

func (f *form) file(name string, up models.Upload) error {
	filename := up.Filename
	if filename == "" {
		filename = name
	}

	ct := up.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		`form-data; name="`+escapeQuotes(name)+`"; filename="`+escapeQuotes(filename)+`"`)
	h.Set("Content-Type", ct)

	pw, err := f.w.CreatePart(h)
	if err != nil {
		return err
	}

	_, err = pw.Write(up.Data)
	return err
}

// request закрывает writer и собирает запрос.
func (f *form) request(method, path, token string) (request, error) {
	if err := f.w.Close(); err != nil {
		return request{}, err
	}

	return request{
		method:      method,
		path:        path,
		body:        f.buf.Bytes(),
		contentType: f.w.FormDataContentType(),
		token:       token,
	}, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }
