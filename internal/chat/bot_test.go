package chat

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"prodmcp/internal/llm"
	"prodmcp/internal/logger"
	"prodmcp/internal/store"
	"prodmcp/internal/tool"
	"prodmcp/internal/tool/builtin"
)

type fakeLLM struct {
	reply    string
	err      error
	requests []*llm.ChatRequest
}

func (f *fakeLLM) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.ChatResponse{Message: llm.NewMessage(llm.RoleAssistant, f.reply)}, nil
}

func (f *fakeLLM) Provider() string { return "fake" }
func (f *fakeLLM) Model() string    { return "fake-model" }

type failingCaller struct{}

func (failingCaller) ListTools(ctx context.Context) ([]tool.Descriptor, error) {
	return nil, errors.New("connection refused")
}

func (failingCaller) CallTool(ctx context.Context, call tool.Call) (*tool.Result, error) {
	return nil, errors.New("connection refused")
}

func newLocalCaller(t *testing.T) *LocalCaller {
	t.Helper()
	registry, err := builtin.NewRegistry(store.NewMemory(store.DefaultSeed...))
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	return NewLocalCaller(tool.NewDispatcher(registry))
}

func TestBot_PlainTextIsRelayed(t *testing.T) {
	model := &fakeLLM{reply: "  Hello there!  "}
	bot := NewBot(model, newLocalCaller(t), nil, 0)

	got := bot.HandleMessage(context.Background(), "hi")
	if got != "Hello there!" {
		t.Errorf("Expected relayed text, got %q", got)
	}

	if len(model.requests) != 1 {
		t.Fatalf("Expected one LLM request, got %d", len(model.requests))
	}
	msgs := model.requests[0].Messages
	if len(msgs) != 2 || msgs[0].Role != llm.RoleSystem || msgs[0].Content != SystemPrompt {
		t.Errorf("Expected system prompt first, got %+v", msgs)
	}
	if msgs[1].Role != llm.RoleUser || msgs[1].Content != "hi" {
		t.Errorf("Expected user message, got %+v", msgs[1])
	}
}

func TestBot_ToolCallIsExecuted(t *testing.T) {
	model := &fakeLLM{reply: `Sure: {"tool": "calculate", "arguments": {"expression": "2+2*3"}}`}
	bot := NewBot(model, newLocalCaller(t), nil, 0)

	got := bot.HandleMessage(context.Background(), "what is 2+2*3")
	if got != "Result: 2+2*3 = 8" {
		t.Errorf("Unexpected reply: %q", got)
	}
}

func TestBot_ListProducts(t *testing.T) {
	model := &fakeLLM{reply: `{"tool": "list_products", "arguments": {}}`}
	bot := NewBot(model, newLocalCaller(t), nil, 0)

	got := bot.HandleMessage(context.Background(), "show all products")
	if !strings.HasPrefix(got, "Found 7 products:") {
		t.Errorf("Unexpected reply: %q", got)
	}
	if !strings.Contains(got, "Name: Green Tea") || !strings.Contains(got, "Price: 4.50") {
		t.Errorf("Expected product card in reply: %q", got)
	}
}

func TestBot_FailureIsPrefixed(t *testing.T) {
	model := &fakeLLM{reply: `{"tool": "find_product_by_ID", "arguments": {"id": 42}}`}
	bot := NewBot(model, newLocalCaller(t), nil, 0)

	got := bot.HandleMessage(context.Background(), "product 42")
	if got != "Error: product with ID 42 not found" {
		t.Errorf("Unexpected reply: %q", got)
	}
}

func TestBot_LLMError(t *testing.T) {
	model := &fakeLLM{err: errors.New("timeout")}
	bot := NewBot(model, newLocalCaller(t), nil, 0)

	got := bot.HandleMessage(context.Background(), "hi")
	if got != "LLM request failed: timeout" {
		t.Errorf("Unexpected reply: %q", got)
	}
}

func TestBot_UnreachableToolServer(t *testing.T) {
	model := &fakeLLM{reply: `{"tool": "list_products", "arguments": {}}`}
	bot := NewBot(model, failingCaller{}, nil, 0)

	got := bot.HandleMessage(context.Background(), "show all")
	if got != "Error: cannot reach tool server: connection refused" {
		t.Errorf("Unexpected reply: %q", got)
	}
}

func TestBot_Commands(t *testing.T) {
	model := &fakeLLM{}
	bot := NewBot(model, newLocalCaller(t), nil, 0)
	ctx := context.Background()

	if got := bot.HandleMessage(ctx, "/start"); got != welcomeText {
		t.Errorf("Unexpected /start reply: %q", got)
	}
	if got := bot.HandleMessage(ctx, "/help"); got != helpText {
		t.Errorf("Unexpected /help reply: %q", got)
	}
	if got := bot.HandleMessage(ctx, "/weather now"); !strings.Contains(got, "Unknown command /weather") {
		t.Errorf("Unexpected reply for unknown command: %q", got)
	}
	if _, err := bot.HandleCommand("/quit"); !errors.Is(err, ErrQuit) {
		t.Errorf("Expected ErrQuit, got %v", err)
	}
	if len(model.requests) != 0 {
		t.Errorf("Commands must not reach the model, got %d requests", len(model.requests))
	}
}

func TestBot_EmptyInput(t *testing.T) {
	model := &fakeLLM{}
	bot := NewBot(model, newLocalCaller(t), nil, 0)

	if got := bot.HandleMessage(context.Background(), "   "); got != "" {
		t.Errorf("Expected no reply, got %q", got)
	}
	if len(model.requests) != 0 {
		t.Error("Blank input must not reach the model")
	}
}

func TestBot_DiscoverAndSchemaMismatch(t *testing.T) {
	var logs bytes.Buffer
	l := logger.NewLogger(&logs, logger.LevelDebug)
	l.SetColorMode(false)

	model := &fakeLLM{reply: `{"tool": "find_product_by_ID", "arguments": {"id": "seven"}}`}
	bot := NewBot(model, newLocalCaller(t), l, 0)

	descriptors, err := bot.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(descriptors) != 6 {
		t.Fatalf("Expected 6 descriptors, got %d", len(descriptors))
	}

	got := bot.HandleMessage(context.Background(), "product seven")
	if got != "Error: id must be an integer" {
		t.Errorf("Unexpected reply: %q", got)
	}
	if !strings.Contains(logs.String(), "do not match its schema") {
		t.Errorf("Expected schema mismatch warning, got logs: %s", logs.String())
	}
}

func TestBot_DiscoverFailure(t *testing.T) {
	bot := NewBot(&fakeLLM{}, failingCaller{}, nil, 0)
	if _, err := bot.Discover(context.Background()); err == nil {
		t.Error("Expected Discover to fail")
	}
}

func TestBot_Run(t *testing.T) {
	model := &fakeLLM{reply: `{"tool": "calculate", "arguments": {"expression": "10/4"}}`}
	bot := NewBot(model, newLocalCaller(t), nil, 0)

	in := strings.NewReader("/help\nhow much is 10/4\n/quit\nnever read\n")
	var out bytes.Buffer
	if err := bot.Run(context.Background(), in, &out); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "Result: 10/4 = 2.5") {
		t.Errorf("Expected calculation reply, got: %s", text)
	}
	if !strings.Contains(text, "Bye!") {
		t.Errorf("Expected goodbye, got: %s", text)
	}
	if len(model.requests) != 1 {
		t.Errorf("Expected exactly one model request, got %d", len(model.requests))
	}
}

func TestBot_RunStopsOnCancelWhileIdle(t *testing.T) {
	bot := NewBot(&fakeLLM{}, newLocalCaller(t), nil, 0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pr, pw := io.Pipe()
	defer pw.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- bot.Run(ctx, pr, io.Discard)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel while waiting for input")
	}
}

func TestBot_RunEndsAtEOFWithoutNewline(t *testing.T) {
	model := &fakeLLM{reply: "plain answer"}
	bot := NewBot(model, newLocalCaller(t), nil, 0)

	var out bytes.Buffer
	if err := bot.Run(context.Background(), strings.NewReader("hello"), &out); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "plain answer") {
		t.Errorf("Expected the last unterminated line to be answered, got: %s", out.String())
	}
}

func TestBot_MalformedCallIsRelayedAsText(t *testing.T) {
	reply := `{"tool": 5, "arguments": {}}`
	model := &fakeLLM{reply: reply}
	bot := NewBot(model, newLocalCaller(t), nil, 0)

	if got := bot.HandleMessage(context.Background(), "do something"); got != reply {
		t.Errorf("Expected the model text verbatim, got %q", got)
	}
}
