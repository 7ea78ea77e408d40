package ws

import (
	"sync"

	"fedbox/internal/events"

	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v3"
	"github.com/valyala/fasthttp"
)

// StreamEvents upgrades to WebSocket and forwards live journal events until
// the client disconnects.
func StreamEvents(c fiber.Ctx, em *events.Emitter) error {
	type requestCtxProvider interface {
		RequestCtx() *fasthttp.RequestCtx
	}

	provider, ok := any(c).(requestCtxProvider)
	if !ok {
		return fiber.ErrInternalServerError
	}

	return Upgrader.Upgrade(provider.RequestCtx(), func(conn *websocket.Conn) {
		defer conn.Close()

		feed, cancel := em.Subscribe()
		defer cancel()

		closed := make(chan struct{})
		var once sync.Once
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					once.Do(func() { close(closed) })
					return
				}
			}
		}()

		for {
			select {
			case evt, ok := <-feed:
				if !ok {
					return
				}
				if err := WriteEvent(conn, evt); err != nil {
					return
				}
			case <-closed:
				_ = WriteStatus(conn, "info", "event stream ended")
				return
			}
		}
	})
}
