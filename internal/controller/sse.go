package controller

import (
	"bufio"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const (
	sseChunk = "chunk"
	sseDone  = "done"
	sseError = "error"
)

// sseWriter frames server-sent events onto a buffered response stream.
type sseWriter struct {
	w *bufio.Writer
}

func (s *sseWriter) send(event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	// a failed flush means the client went away
	return s.w.Flush()
}

// streamSSE switches the response to text/event-stream and runs fn once the
// handler has returned. fn owns the writer until it returns.
func streamSSE(ctx *fiber.Ctx, fn func(sse *sseWriter)) error {
	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		fn(&sseWriter{w: w})
	}))
	return nil
}
