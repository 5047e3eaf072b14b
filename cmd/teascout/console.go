package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/teascout/teascout/internal/report"
	"github.com/teascout/teascout/messages"
)

// consoleHook prints run progress to a terminal and hands the final report
// over a channel once the run closes.
type consoleHook struct {
	mu         sync.Mutex
	w          io.Writer
	lastSender string
	streaming  bool
	result     chan report.Report
	closeOnce  sync.Once
}

func newConsoleHook(w io.Writer) (*consoleHook, <-chan report.Report) {
	h := &consoleHook{
		w:      w,
		result: make(chan report.Report, 1),
	}
	return h, h.result
}

func (h *consoleHook) OnUserPrompt(_ context.Context, msg messages.Message[messages.UserMessage]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintf(h.w, "%s %s\n", color.CyanString(">"), msg.Payload.Content)
}

func (h *consoleHook) OnAssistantChunk(_ context.Context, msg messages.Message[messages.AssistantMessage]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if msg.Payload.Content == "" {
		return
	}
	if !h.streaming || senderChanged(h.lastSender, msg.Sender) {
		fmt.Fprint(h.w, color.MagentaString(msg.Sender)+": ")
	}
	if msg.Sender != "" {
		h.lastSender = msg.Sender
	}
	h.streaming = true
	fmt.Fprint(h.w, msg.Payload.Content)
}

func (h *consoleHook) OnToolCallChunk(context.Context, messages.Message[messages.ToolCallMessage]) {
}

func (h *consoleHook) OnAssistantMessage(_ context.Context, msg messages.Message[messages.AssistantMessage]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.streaming {
		// content already went out chunk by chunk
		fmt.Fprintln(h.w)
		h.streaming = false
		return
	}
	if msg.Payload.Content == "" {
		return
	}
	fmt.Fprintf(h.w, "%s: %s\n", color.MagentaString(msg.Sender), msg.Payload.Content)
}

func (h *consoleHook) OnToolCallMessage(_ context.Context, msg messages.Message[messages.ToolCallMessage]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.streaming {
		fmt.Fprintln(h.w)
		h.streaming = false
	}
	for _, tc := range msg.Payload.ToolCalls {
		if tc.Name == "" {
			continue
		}
		args := strings.ReplaceAll(tc.Arguments, ": ", "=")
		fmt.Fprintf(h.w, "%s%s\n", color.YellowString(tc.Name), args)
	}
}

func (h *consoleHook) OnToolCallResponse(context.Context, messages.Message[messages.ToolResponse]) {
}

func (h *consoleHook) OnResult(_ context.Context, rep report.Report) {
	select {
	case h.result <- rep:
	default:
	}
}

func (h *consoleHook) OnError(_ context.Context, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintf(h.w, "%s %v\n", color.RedString("error:"), err)
}

func (h *consoleHook) OnClose(context.Context) {
	h.closeOnce.Do(func() { close(h.result) })
}

func senderChanged(last, current string) bool {
	return current != "" && current != last
}
