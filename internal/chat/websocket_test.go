package chat_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/p-n-ai/studybot/internal/chat"
)

func TestWSConn_EchoSession(t *testing.T) {
	serverErr := make(chan error, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			serverErr <- err
			return
		}
		ws := chat.NewWSConn(conn)
		ctx := r.Context()

		for {
			line, err := ws.ReadLine(ctx)
			if errors.Is(err, io.EOF) {
				serverErr <- nil
				return
			}
			if err != nil {
				serverErr <- err
				return
			}
			if err := ws.Say(ctx, "you said:\n"+line); err != nil {
				serverErr <- err
				return
			}
			_ = ws.Prompt(ctx, "> ")
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}

	if err := client.Write(ctx, websocket.MessageText, []byte("teach me bst\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	for _, want := range []string{"you said:", "teach me bst", "> "} {
		_, data, err := client.Read(ctx)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if string(data) != want {
			t.Errorf("message = %q, want %q", string(data), want)
		}
	}

	_ = client.Close(websocket.StatusNormalClosure, "done")

	select {
	case err := <-serverErr:
		if err != nil {
			t.Errorf("server loop error = %v", err)
		}
	case <-ctx.Done():
		t.Fatal("server loop did not observe the close")
	}
}
