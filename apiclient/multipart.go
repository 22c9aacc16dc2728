package apiclient

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// Multipart is a fully encoded multipart/form-data body
type Multipart struct {
	ContentType string
	Body        []byte
}

type MultipartBuilder struct {
	buf bytes.Buffer
	w   *multipart.Writer
	err error
}

func NewMultipartBuilder() *MultipartBuilder {
	b := &MultipartBuilder{}
	b.w = multipart.NewWriter(&b.buf)
	return b
}

func (b *MultipartBuilder) Field(name, value string) *MultipartBuilder {
	if b.err != nil {
		return b
	}
	b.err = b.w.WriteField(name, value)
	return b
}

// File adds a file part. contentType falls back to application/octet-stream.
func (b *MultipartBuilder) File(field, filename, contentType string, data []byte) *MultipartBuilder {
	if b.err != nil {
		return b
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(field), escapeQuotes(filename)))
	h.Set("Content-Type", contentType)
	part, err := b.w.CreatePart(h)
	if err != nil {
		b.err = err
		return b
	}
	_, b.err = part.Write(data)
	return b
}

func (b *MultipartBuilder) Build() (*Multipart, error) {
	if b.err != nil {
		return nil, fmt.Errorf("[MultipartBuilder] %w", b.err)
	}
	if err := b.w.Close(); err != nil {
		return nil, fmt.Errorf("[MultipartBuilder] failed to close writer: %w", err)
	}
	return &Multipart{
		ContentType: b.w.FormDataContentType(),
		Body:        b.buf.Bytes(),
	}, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
