package apiclient

import "context"

// Do performs a request and decodes its JSON body into T. An empty non-JSON
// body yields the zero T; a *Blob target receives a binary body as is.
func Do[T any](ctx context.Context, c *Client, endpoint string, opts RequestOptions) (T, error) {
	var out T
	resp, err := c.Request(ctx, endpoint, opts)
	if err != nil {
		return out, err
	}
	if blob, ok := resp.Blob(); ok {
		if target, ok := any(&out).(*Blob); ok {
			*target = blob
			return out, nil
		}
		if len(blob.Data) == 0 {
			return out, nil
		}
	}
	if err := resp.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}
