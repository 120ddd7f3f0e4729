package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/scopefs/internal/mcp"
	"github.com/standardbeagle/scopefs/internal/query"
)

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run as an MCP server over stdio",
		Action: func(c *cli.Context) error {
			return runMCPServer(c)
		},
	}
}

func runMCPServer(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	engine, err := query.NewEngine(cfg)
	if err != nil {
		return err
	}

	server := mcp.NewServer(engine, cfg, true)
	defer server.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(ctx)
	}()

	select {
	case err := <-errChan:
		// Client closed the transport. EOF on stdin is a normal shutdown.
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("MCP server: %w", err)
		}
		return nil
	case sig := <-sigChan:
		fmt.Fprintf(os.Stderr, "received %s, shutting down\n", sig)
		cancel()
		// The stdio transport blocks on stdin reads. Closing stdin
		// unblocks it so the server goroutine can exit.
		os.Stdin.Close()
		select {
		case <-errChan:
		case <-time.After(5 * time.Second):
		}
		return nil
	}
}
