package chat

import (
	"context"

	"prodmcp/internal/tool"
)

// LocalCaller runs tools in process through a dispatcher.
type LocalCaller struct {
	dispatcher *tool.Dispatcher
}

func NewLocalCaller(d *tool.Dispatcher) *LocalCaller {
	return &LocalCaller{dispatcher: d}
}

func (c *LocalCaller) ListTools(ctx context.Context) ([]tool.Descriptor, error) {
	return c.dispatcher.Registry().Descriptors(), nil
}

func (c *LocalCaller) CallTool(ctx context.Context, call tool.Call) (*tool.Result, error) {
	return c.dispatcher.Dispatch(ctx, call).Result, nil
}
