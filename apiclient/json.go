package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// GetJSON performs an authenticated GET and decodes the response into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.callJSON(ctx, http.MethodGet, path, nil, out)
}

// PostJSON performs an authenticated POST with a JSON body.
func (c *Client) PostJSON(ctx context.Context, path string, payload, out any) error {
	return c.callJSON(ctx, http.MethodPost, path, payload, out)
}

// PutJSON performs an authenticated PUT with a JSON body.
func (c *Client) PutJSON(ctx context.Context, path string, payload, out any) error {
	return c.callJSON(ctx, http.MethodPut, path, payload, out)
}

// PatchJSON performs an authenticated PATCH with a JSON body.
func (c *Client) PatchJSON(ctx context.Context, path string, payload, out any) error {
	return c.callJSON(ctx, http.MethodPatch, path, payload, out)
}

// Delete performs an authenticated DELETE, discarding any response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.Do(ctx, http.MethodDelete, path, nil)
	return err
}

func (c *Client) callJSON(ctx context.Context, method, path string, payload, out any) error {
	body, err := c.Do(ctx, method, path, payload)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
