package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// UploadFile is an in-memory file staged for a multipart submission.
type UploadFile struct {
	// Field is the multipart field name (e.g. "logo").
	Field string
	// Name is the original filename.
	Name string
	// ContentType is the declared MIME type of the payload.
	ContentType string
	// Data is the file content.
	Data []byte
}

// Upload issues a multipart POST or PUT carrying the given form fields and
// one file. The response flows through the same pipeline as every other
// request; failures propagate identically and are never retried.
func (c *Client) Upload(ctx context.Context, method, path string, fields map[string]string, file UploadFile, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("api: write multipart field %q: %w", k, err)
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`,
			escapeQuotes(file.Field), escapeQuotes(file.Name)))
	h.Set("Content-Type", file.ContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("api: create multipart part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return fmt.Errorf("api: write multipart payload: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("api: finalize multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, nil, &buf, w.FormDataContentType())
	if err != nil {
		return err
	}
	_, err = c.do(req, out)
	return err
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// escapeQuotes matches mime/multipart's own header escaping. The manual
// part construction (instead of CreateFormFile) keeps the caller-declared
// Content-Type instead of forcing application/octet-stream.
func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
