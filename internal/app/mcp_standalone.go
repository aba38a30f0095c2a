package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sketchpad/internal/config"
	mcpserver "sketchpad/internal/mcp"
)

// ServeMCP runs the app as a standalone MCP server on stdin/stdout with no GUI.
// It opens the configured storage, loads the session and serves until
// interrupted. Every mutating tool persists the session, which a running
// desktop app picks up through its session watcher.
func ServeMCP() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("[MCP] config: %v (using defaults)", err)
	}

	session, err := openSession(ctx, cfg, noopEmitter{})
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer session.Close()

	mcpSrv := newMCPServer(ctx, session, noopEmitter{})

	log.Println("[MCP] Starting standalone stdio server...")
	if err := mcpSrv.ServeStdio(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}

// newMCPServer exposes session through MCP. Tool calls share the session lock
// and re-read the store first, so edits saved by another process are not lost.
func newMCPServer(ctx context.Context, session *Session, emitter mcpserver.EventEmitter) *mcpserver.Server {
	return mcpserver.New(ctx, mcpserver.Deps{
		Emitter: emitter,
		Docs:    session.docs,
		Canvas:  session.canvas,
		Tools:   session.tools,
		Lock:    session.Locker(),
		Sync: func(ctx context.Context) error {
			_, err := session.reloadLocked(ctx)
			return err
		},
		Persist: session.saveLocked,
	})
}
