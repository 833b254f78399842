package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"chathub/internal/store"
)

// completerFunc adapts a function to the Completer interface.
type completerFunc func(ctx context.Context, prompt string) (string, error)

func (f completerFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func echoCompleter() Completer {
	return completerFunc(func(_ context.Context, prompt string) (string, error) {
		return "echo: " + prompt, nil
	})
}

func failingCompleter() Completer {
	return completerFunc(func(_ context.Context, _ string) (string, error) {
		return "", errors.New("upstream unavailable")
	})
}

func newService(t *testing.T, c Completer) *ChatService {
	t.Helper()
	return NewChatService(store.NewHistoryStore(t.TempDir()), c)
}

func TestCreateChatDefaults(t *testing.T) {
	s := newService(t, echoCompleter())

	id, err := s.CreateChat("ada")
	if err != nil {
		t.Fatalf("CreateChat failed: %v", err)
	}

	chat, err := s.GetChat("ada", id)
	if err != nil {
		t.Fatalf("GetChat failed: %v", err)
	}
	if chat.Title != store.DefaultChatTitle {
		t.Fatalf("new chat title = %q, want %q", chat.Title, store.DefaultChatTitle)
	}
	if len(chat.Messages) != 0 {
		t.Fatalf("new chat has %d messages, want 0", len(chat.Messages))
	}
}

func TestSendMessageAppendsExchange(t *testing.T) {
	s := newService(t, echoCompleter())

	id, err := s.CreateChat("ada")
	if err != nil {
		t.Fatalf("CreateChat failed: %v", err)
	}

	if err := s.SendMessage(context.Background(), "ada", id, "Hello"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	chat, err := s.GetChat("ada", id)
	if err != nil {
		t.Fatalf("GetChat failed: %v", err)
	}
	if len(chat.Messages) != 1 {
		t.Fatalf("expected 1 message pair, got %d", len(chat.Messages))
	}
	if chat.Messages[0].User != "Hello" {
		t.Fatalf("user text = %q", chat.Messages[0].User)
	}
	if chat.Messages[0].Bot != "echo: Hello" {
		t.Fatalf("bot text = %q", chat.Messages[0].Bot)
	}
}

func TestTitleDerivation(t *testing.T) {
	s := newService(t, echoCompleter())
	ctx := context.Background()

	// Short first message becomes the title verbatim.
	id, _ := s.CreateChat("ada")
	if err := s.SendMessage(ctx, "ada", id, "Hello"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	chat, _ := s.GetChat("ada", id)
	if chat.Title != "Hello" {
		t.Fatalf("title = %q, want %q", chat.Title, "Hello")
	}

	// Long first message is truncated to 20 characters plus ellipsis.
	long := "This message is definitely longer than twenty characters"
	id2, _ := s.CreateChat("ada")
	if err := s.SendMessage(ctx, "ada", id2, long); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	chat2, _ := s.GetChat("ada", id2)
	want := long[:20] + "..."
	if chat2.Title != want {
		t.Fatalf("title = %q, want %q", chat2.Title, want)
	}

	// Subsequent sends never re-derive the title.
	if err := s.SendMessage(ctx, "ada", id, "A different message"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	chat, _ = s.GetChat("ada", id)
	if chat.Title != "Hello" {
		t.Fatalf("title was re-derived to %q", chat.Title)
	}
}

func TestSendMessageDegradesUpstreamFailureIntoChat(t *testing.T) {
	s := newService(t, failingCompleter())

	id, _ := s.CreateChat("ada")
	if err := s.SendMessage(context.Background(), "ada", id, "Hello"); err != nil {
		t.Fatalf("SendMessage surfaced an upstream failure: %v", err)
	}

	chat, err := s.GetChat("ada", id)
	if err != nil {
		t.Fatalf("GetChat failed: %v", err)
	}
	if len(chat.Messages) != 1 {
		t.Fatalf("expected the exchange to be appended, got %d pairs", len(chat.Messages))
	}
	if !strings.HasPrefix(chat.Messages[0].Bot, "⚠️ Error:") {
		t.Fatalf("bot reply missing error marker: %q", chat.Messages[0].Bot)
	}
	if !strings.Contains(chat.Messages[0].Bot, "upstream unavailable") {
		t.Fatalf("bot reply missing error description: %q", chat.Messages[0].Bot)
	}
}

func TestLatestChatID(t *testing.T) {
	s := newService(t, echoCompleter())

	if _, err := s.LatestChatID("ada"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty history, got %v", err)
	}

	first, _ := s.CreateChat("ada")
	second, _ := s.CreateChat("ada")

	latest, err := s.LatestChatID("ada")
	if err != nil {
		t.Fatalf("LatestChatID failed: %v", err)
	}
	if latest != second {
		t.Fatalf("latest = %q, want %q (not %q)", latest, second, first)
	}
}

func TestDeleteChat(t *testing.T) {
	s := newService(t, echoCompleter())

	id, _ := s.CreateChat("ada")
	if err := s.DeleteChat("ada", id); err != nil {
		t.Fatalf("DeleteChat failed: %v", err)
	}

	if _, err := s.GetChat("ada", id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("deleted chat still present: %v", err)
	}
	if _, err := s.LatestChatID("ada"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected empty history after delete, got %v", err)
	}
}
