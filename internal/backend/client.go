// Package backend talks to the inference-execution service: graph
// submission over HTTP, queue progress over a socket.io event stream, and
// the image fetch/transform sub-builders the graph builder awaits.
package backend

import (
	"context"
	"fmt"

	"resty.dev/v3"

	"github.com/easelai/easel/internal/ctxlog"
	"github.com/easelai/easel/internal/graph"
)

// QueueItem identifies a submitted generation in the service's queue.
type QueueItem struct {
	ItemID  string `json:"item_id"`
	BatchID string `json:"batch_id"`
	Status  string `json:"status"`
}

// Client is the HTTP client for the inference service.
type Client struct {
	http *resty.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		http: resty.New().SetBaseURL(baseURL),
	}
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.http.Close()
}

// Enqueue submits a built graph for execution and returns its queue item.
// Node types and field names are validated service-side; a mismatch with
// the protocol contract surfaces here as a request error.
func (c *Client) Enqueue(ctx context.Context, g *graph.Graph) (*QueueItem, error) {
	logger := ctxlog.FromContext(ctx)

	var item QueueItem
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"graph": g}).
		SetResult(&item).
		Post("/api/v1/queue/enqueue")
	if err != nil {
		return nil, fmt.Errorf("enqueueing graph: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("enqueueing graph: service returned %s", res.Status())
	}

	logger.Info("graph enqueued", "item_id", item.ItemID, "batch_id", item.BatchID)
	return &item, nil
}

// FetchImage downloads a server-side image by name.
func (c *Client) FetchImage(ctx context.Context, name string) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/api/v1/images/%s/full", name))
	if err != nil {
		return nil, fmt.Errorf("fetching image %s: %w", name, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("fetching image %s: service returned %s", name, res.Status())
	}
	return res.Bytes(), nil
}

// UploadImage stores PNG bytes on the service and returns the assigned
// image name.
func (c *Client) UploadImage(ctx context.Context, png []byte) (string, error) {
	var uploaded struct {
		Name string `json:"image_name"`
	}
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "image/png").
		SetBody(png).
		SetResult(&uploaded).
		Post("/api/v1/images/upload")
	if err != nil {
		return "", fmt.Errorf("uploading image: %w", err)
	}
	if res.IsError() {
		return "", fmt.Errorf("uploading image: service returned %s", res.Status())
	}
	return uploaded.Name, nil
}

// Load implements the canvas ImageLoader contract: it blocks until the
// named image is fetchable, so a staging swap never shows stale content.
func (c *Client) Load(ctx context.Context, name string) error {
	_, err := c.FetchImage(ctx, name)
	return err
}
