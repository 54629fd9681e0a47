package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/coder/websocket"
)

const wsMaxMessageLen = 32 * 1024

// WSConn adapts a websocket connection to both Input and Presenter. Each
// inbound text message is one line; each output line is one text message.
type WSConn struct {
	conn *websocket.Conn
}

// NewWSConn wraps an accepted websocket connection.
func NewWSConn(conn *websocket.Conn) *WSConn {
	conn.SetReadLimit(wsMaxMessageLen)
	return &WSConn{conn: conn}
}

func (c *WSConn) ReadLine(ctx context.Context) (string, error) {
	for {
		typ, data, err := c.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return "", io.EOF
			}
			if errors.Is(err, io.EOF) {
				return "", io.EOF
			}
			return "", fmt.Errorf("reading websocket: %w", err)
		}
		if typ != websocket.MessageText {
			continue
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
}

func (c *WSConn) Say(ctx context.Context, text string) error {
	return c.Print(ctx, text)
}

func (c *WSConn) Print(ctx context.Context, text string) error {
	for _, line := range strings.Split(text, "\n") {
		if err := c.send(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func (c *WSConn) Prompt(ctx context.Context, text string) error {
	return c.send(ctx, text)
}

// Close ends the connection with a normal closure.
func (c *WSConn) Close(reason string) error {
	return c.conn.Close(websocket.StatusNormalClosure, reason)
}

func (c *WSConn) send(ctx context.Context, line string) error {
	parts := SplitMessage(line, wsMaxMessageLen)
	if len(parts) == 0 {
		parts = []string{""}
	}
	for _, p := range parts {
		if err := c.conn.Write(ctx, websocket.MessageText, []byte(p)); err != nil {
			return fmt.Errorf("writing websocket: %w", err)
		}
	}
	return nil
}
