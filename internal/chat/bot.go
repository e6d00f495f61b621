// Package chat turns natural-language requests into tool calls.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"prodmcp/internal/extract"
	"prodmcp/internal/lineio"
	"prodmcp/internal/llm"
	"prodmcp/internal/logger"
	"prodmcp/internal/tool"
)

// Caller reaches a tool server.
type Caller interface {
	ListTools(ctx context.Context) ([]tool.Descriptor, error)
	CallTool(ctx context.Context, call tool.Call) (*tool.Result, error)
}

// ErrQuit is returned by HandleCommand when the user leaves the chat.
var ErrQuit = errors.New("quit")

type Bot struct {
	llm     llm.Client
	caller  Caller
	logger  *logger.Logger
	timeout time.Duration

	mu      sync.RWMutex
	schemas map[string]*gojsonschema.Schema
}

// NewBot creates a bot. timeout bounds each model request; zero means 30s.
func NewBot(client llm.Client, caller Caller, l *logger.Logger, timeout time.Duration) *Bot {
	if l == nil {
		l = logger.NewLogger(io.Discard, logger.LevelError)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Bot{
		llm:     client,
		caller:  caller,
		logger:  l,
		timeout: timeout,
		schemas: make(map[string]*gojsonschema.Schema),
	}
}

// Discover fetches the advertised tools and keeps their input schemas for
// argument checks. A schema that fails to load is skipped.
func (b *Bot) Discover(ctx context.Context) ([]tool.Descriptor, error) {
	descriptors, err := b.caller.ListTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}

	schemas := make(map[string]*gojsonschema.Schema, len(descriptors))
	for _, d := range descriptors {
		if len(d.InputSchema) == 0 {
			continue
		}
		s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(d.InputSchema))
		if err != nil {
			b.logger.Warn("tool %s: unusable input schema: %v", d.Name, err)
			continue
		}
		schemas[d.Name] = s
	}

	b.mu.Lock()
	b.schemas = schemas
	b.mu.Unlock()
	return descriptors, nil
}

// HandleMessage produces the reply to one line of user input.
func (b *Bot) HandleMessage(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if strings.HasPrefix(text, "/") {
		reply, _ := b.HandleCommand(text)
		return reply
	}

	b.logger.Debug("user: %s", text)
	answer, err := b.ask(ctx, text)
	if err != nil {
		b.logger.Error("LLM request failed: %v", err)
		return fmt.Sprintf("LLM request failed: %v", err)
	}
	b.logger.ModelReply(answer)

	match, ok := extract.Extract(answer)
	if !ok {
		return answer
	}
	call := match.Call
	b.logger.Debug("recovered call %s via %s strategy", call.Name, match.Strategy)
	b.checkArgs(call)

	result, err := b.caller.CallTool(ctx, call)
	if err != nil {
		result = tool.Failure(tool.KindCollaborator, fmt.Sprintf("cannot reach tool server: %v", err))
	}
	return FormatResult(call.Name, result)
}

// HandleCommand answers a slash command. It returns ErrQuit for /quit and
// /exit.
func (b *Bot) HandleCommand(text string) (string, error) {
	cmd := strings.Fields(text)[0]
	switch strings.ToLower(cmd) {
	case "/start":
		return welcomeText, nil
	case "/help":
		return helpText, nil
	case "/quit", "/exit":
		return "Bye!", ErrQuit
	default:
		return fmt.Sprintf("Unknown command %s. Type /help for usage.", cmd), nil
	}
}

// Run reads requests line by line from in and writes replies to out until
// EOF, /quit or ctx is done. Cancellation is honoured while waiting for
// input.
func (b *Bot) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	reader := lineio.NewReader(in)

	fmt.Fprintln(out, welcomeText)
	for {
		fmt.Fprint(out, "\n> ")
		raw, readErr := reader.ReadLine(ctx)
		if err := ctx.Err(); err != nil {
			fmt.Fprintln(out)
			return err
		}

		line := strings.TrimSpace(string(raw))
		switch {
		case line == "":
		case strings.HasPrefix(line, "/"):
			reply, err := b.HandleCommand(line)
			fmt.Fprintln(out, reply)
			if errors.Is(err, ErrQuit) {
				return nil
			}
		default:
			fmt.Fprintln(out, b.HandleMessage(ctx, line))
		}

		if readErr != nil {
			fmt.Fprintln(out)
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return readErr
		}
	}
}

func (b *Bot) ask(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	resp, err := b.llm.Chat(ctx, &llm.ChatRequest{
		Messages: []llm.Message{
			llm.NewMessage(llm.RoleSystem, SystemPrompt),
			llm.NewMessage(llm.RoleUser, text),
		},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Message.Content), nil
}

// checkArgs logs when recovered arguments do not fit the advertised schema.
// The call still goes through; the server has the final say.
func (b *Bot) checkArgs(call tool.Call) {
	b.mu.RLock()
	schema, ok := b.schemas[call.Name]
	b.mu.RUnlock()
	if !ok {
		return
	}

	args := call.Arguments
	if args == nil {
		args = tool.Args{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		b.logger.Warn("cannot encode arguments for %s: %v", call.Name, err)
		return
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		b.logger.Warn("schema check for %s failed: %v", call.Name, err)
		return
	}
	if result.Valid() {
		return
	}
	details := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		details = append(details, e.String())
	}
	b.logger.Warn("arguments for %s do not match its schema: %s", call.Name, strings.Join(details, "; "))
}
