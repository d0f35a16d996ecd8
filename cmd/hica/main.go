// Command hica is a thin, runnable wiring of the core packages: a
// file-backed Conversation Store, a Tool Registry with one demonstration
// tool, and an Agent Loop driven end-to-end against a scripted provider:
// register a minimal agent, run it once, print the result.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sandipan1/hica/agentloop"
	"github.com/sandipan1/hica/config"
	"github.com/sandipan1/hica/convstore"
	"github.com/sandipan1/hica/llmgateway"
	"github.com/sandipan1/hica/telemetry"
	"github.com/sandipan1/hica/thread"
	"github.com/sandipan1/hica/toolregistry"
)

// stubProvider answers every selection call with "done" so the demo
// runs end-to-end without a configured API key. Wire in
// llmgateway/providers/{anthropic,openai,bedrock} for a real model.
type stubProvider struct{ calls int }

func (p *stubProvider) Complete(ctx context.Context, req llmgateway.Request) (llmgateway.Response, error) {
	p.calls++
	switch p.calls {
	case 1:
		return llmgateway.Response{Value: json.RawMessage(`{"intent":"done","reason":"no tool needed for a greeting"}`)}, nil
	default:
		return llmgateway.Response{Value: json.RawMessage(`{"message":"Hello! How can I help you today?"}`)}, nil
	}
}

func main() {
	ctx := context.Background()
	cfg := config.Load("HICA_")

	logger := telemetry.NewNoopLogger()
	if cfg.Telemetry.Backend == "clue" {
		logger = telemetry.NewClueLogger()
	}

	storeDir := cfg.Store.FileDir
	if storeDir == "" || storeDir == "./threads" {
		dir, err := os.MkdirTemp("", "hica-threads-*")
		if err != nil {
			fmt.Fprintln(os.Stderr, "create thread directory:", err)
			os.Exit(1)
		}
		storeDir = dir
	}
	store, err := convstore.NewFileStore(storeDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open conversation store:", err)
		os.Exit(1)
	}

	registry := toolregistry.New(toolregistry.Options{Logger: logger})
	if err := registry.RegisterFunc("echo", "echoes the given text back", func(text string) string { return text }, "text"); err != nil {
		fmt.Fprintln(os.Stderr, "register tool:", err)
		os.Exit(1)
	}

	loopCfg := agentloop.Config{
		Model:                        cfg.AgentLoop.Model,
		SystemPrompt:                 cfg.AgentLoop.SystemPrompt,
		MaxEventsBeforeSummarization: cfg.AgentLoop.MaxEventsBeforeSummarization,
		SummarizationTailSize:        cfg.AgentLoop.SummarizationTailSize,
	}
	loop := agentloop.New(registry, &stubProvider{}, loopCfg, agentloop.Options{Logger: logger})

	th := thread.New()
	th.AddEvent(thread.UserInput, "hello there", "")

	snapshots, errs := loop.Run(ctx, th)
	var final *thread.Thread
	for snap := range snapshots {
		final = snap
	}
	if err := <-errs; err != nil {
		fmt.Fprintln(os.Stderr, "agent loop:", err)
		os.Exit(1)
	}

	if err := store.Set(ctx, final); err != nil {
		fmt.Fprintln(os.Stderr, "persist thread:", err)
		os.Exit(1)
	}

	last := final.Events[len(final.Events)-1]
	data := last.Data.(map[string]any)
	fmt.Println("Thread ID:", final.ThreadID)
	fmt.Println("Assistant:", data["message"])
}
