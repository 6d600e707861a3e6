package backend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/easelai/easel/internal/ctxlog"
)

// Queue event names emitted by the inference service.
const (
	EventInvocationStarted  = "invocation_started"
	EventInvocationComplete = "invocation_complete"
	EventQueueItemStatus    = "queue_item_status_changed"
)

// QueueEvent is one progress notification for a submitted generation.
type QueueEvent struct {
	Type      string
	ItemID    string
	ImageName string
	Status    string
}

// connectTimeout bounds the initial socket.io handshake.
const connectTimeout = 15 * time.Second

// EventStream is a live subscription to the service's queue events. Staging
// candidates are driven from the handler it invokes.
type EventStream struct {
	io *socket.Socket
}

// ConnectEvents opens a websocket event stream against the service and
// dispatches every queue event to handler. The handler runs on the
// socket's callback goroutine; it must hand results over to the render
// loop rather than touching overlay state itself.
func ConnectEvents(ctx context.Context, rawURL string, handler func(QueueEvent)) (*EventStream, error) {
	logger := ctxlog.FromContext(ctx).With("component", "events", "url", rawURL)

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing event stream URL: %w", err)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket("/", opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("event stream connected", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		connectChan <- connectFailure(errs...)
	})

	for _, name := range []string{EventInvocationStarted, EventInvocationComplete, EventQueueItemStatus} {
		eventType := name
		io.On(types.EventName(eventType), func(datas ...any) {
			if len(datas) == 0 {
				return
			}
			handler(parseQueueEvent(eventType, datas[0]))
		})
	}

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("event stream connection failed: %w", err)
		}
		return &EventStream{io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for event stream connection")
	case <-time.After(connectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for event stream connection", connectTimeout)
	}
}

// Close tears down the subscription.
func (s *EventStream) Close() {
	s.io.Disconnect()
}

// connectFailure normalizes a connect_error payload into a non-nil error,
// so a rejected handshake is never mistaken for a successful connection.
func connectFailure(errs ...any) error {
	if len(errs) > 0 {
		if err, ok := errs[0].(error); ok && err != nil {
			return err
		}
	}
	return errors.New("event stream handshake rejected")
}

// parseQueueEvent extracts the fields easel cares about from a raw
// socket.io payload. Unknown shapes yield an event with only Type set.
func parseQueueEvent(eventType string, data any) QueueEvent {
	ev := QueueEvent{Type: eventType}
	payload, ok := data.(map[string]any)
	if !ok {
		return ev
	}
	if v, ok := payload["item_id"].(string); ok {
		ev.ItemID = v
	}
	if v, ok := payload["status"].(string); ok {
		ev.Status = v
	}
	if img, ok := payload["image"].(map[string]any); ok {
		if v, ok := img["image_name"].(string); ok {
			ev.ImageName = v
		}
	}
	return ev
}
