package lm

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"structuredqa"
)

// Callback observes model calls. OnStart and OnEnd share a call ID.
type Callback interface {
	OnStart(callID string, messages []Message)
	OnEnd(callID string, output string, err error)
}

// LogCallback logs prompts and responses. A nil Logger means
// structuredqa.Logger at call time.
type LogCallback struct {
	Logger *slog.Logger
}

func (l LogCallback) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return structuredqa.Logger
}

func (l LogCallback) OnStart(callID string, messages []Message) {
	log := l.logger()
	log.Info("LM call start", "call", callID, "messages", len(messages))
	for _, m := range messages {
		log.Info("Message content", "call", callID, "role", m.Role, "content", m.Content)
	}
}

func (l LogCallback) OnEnd(callID string, output string, err error) {
	if err != nil {
		l.logger().Error("LM call failed", "call", callID, "error", err)
		return
	}
	l.logger().Info("Response", "call", callID, "output", output)
}

type observed struct {
	LM
	callbacks []Callback
}

// Observe wraps client so every Call is reported to callbacks.
func Observe(client LM, callbacks ...Callback) LM {
	return &observed{LM: client, callbacks: callbacks}
}

var callSeq atomic.Uint64

func newCallID() string {
	return fmt.Sprintf("call_%d_%d", time.Now().UnixNano(), callSeq.Add(1))
}

func (o *observed) Call(ctx context.Context, messages []Message) (string, error) {
	id := newCallID()
	for _, cb := range o.callbacks {
		cb.OnStart(id, messages)
	}
	out, err := o.LM.Call(ctx, messages)
	for _, cb := range o.callbacks {
		cb.OnEnd(id, out, err)
	}
	return out, err
}
