package apiclient

import (
	"net/http"

	"github.com/pkg/errors"
)

// Blob is a non-JSON response body, kept byte for byte
type Blob struct {
	ContentType string
	Data        []byte
}

// Response is either a JSON document or a Blob, never both.
type Response struct {
	Status int
	Header http.Header

	json []byte
	blob *Blob
}

func (r *Response) IsJSON() bool {
	return r.blob == nil
}

// RawJSON returns the JSON body, nil for a binary response
func (r *Response) RawJSON() []byte {
	if r.blob != nil {
		return nil
	}
	return r.json
}

// Blob returns the binary body and false for a JSON response
func (r *Response) Blob() (Blob, bool) {
	if r.blob == nil {
		return Blob{}, false
	}
	return *r.blob, true
}

// Decode unmarshals the JSON body into v
func (r *Response) Decode(v any) error {
	if r.blob != nil {
		return &Error{
			Kind:    KindDecode,
			Status:  r.Status,
			Message: "response is not JSON: " + r.blob.ContentType,
		}
	}
	if err := json.Unmarshal(r.json, v); err != nil {
		return &Error{
			Kind:    KindDecode,
			Status:  r.Status,
			Message: err.Error(),
			Err:     errors.Wrap(err, "decode response"),
		}
	}
	return nil
}
