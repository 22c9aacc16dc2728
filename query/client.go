package query

import (
	"context"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/pdpkitchen/dashboard/apiclient"
	"github.com/rs/zerolog/log"
)

// Requester is the part of *apiclient.Client the adapters need
type Requester interface {
	Request(ctx context.Context, endpoint string, opts apiclient.RequestOptions) (*apiclient.Response, error)
}

// Client pairs a Requester with the cache its reads go through
type Client struct {
	api   Requester
	cache Cache
}

func NewClient(api Requester, cache Cache) *Client {
	if cache == nil {
		cache = noopCache{}
	}
	return &Client{api: api, cache: cache}
}

// Scoped returns a client whose cache entries are private to scope,
// typically the browser session id
func (c *Client) Scoped(scope string) *Client {
	return &Client{api: c.api, cache: Scope(c.cache, scope)}
}

func (c *Client) API() Requester {
	return c.api
}

// Invalidate marks every cached read of the groups stale
func (c *Client) Invalidate(ctx context.Context, groups ...string) error {
	for _, group := range groups {
		if err := c.cache.InvalidateGroup(ctx, group); err != nil {
			return err
		}
		log.Debug().Str("group", group).Msg("query cache invalidated")
	}
	return nil
}

// Fetch GETs endpoint through the cache. Only JSON bodies are cached.
func Fetch[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	var out T
	group := GroupOf(endpoint)

	cached, ok, err := c.cache.Get(ctx, group, endpoint)
	if err != nil {
		log.Warn().Err(err).Str("endpoint", endpoint).Msg("query cache read failed")
	}
	if ok {
		if err := sonic.ConfigStd.Unmarshal(cached, &out); err == nil {
			return out, nil
		}
	}

	resp, err := c.api.Request(ctx, endpoint, apiclient.RequestOptions{Method: http.MethodGet})
	if err != nil {
		return out, err
	}
	if resp.IsJSON() {
		if err := c.cache.Set(ctx, group, endpoint, resp.RawJSON()); err != nil {
			log.Warn().Err(err).Str("endpoint", endpoint).Msg("query cache write failed")
		}
	}
	return decodeResponse[T](resp)
}

func decodeResponse[T any](resp *apiclient.Response) (T, error) {
	var out T
	if blob, ok := resp.Blob(); ok {
		if target, ok := any(&out).(*apiclient.Blob); ok {
			*target = blob
			return out, nil
		}
		if len(blob.Data) == 0 {
			return out, nil
		}
	}
	err := resp.Decode(&out)
	return out, err
}
