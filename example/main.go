package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jpalmerr/olevel"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// sqlite keeps the demo collection across restarts
	app, err := olevel.New(
		olevel.WithPort(8080),
		olevel.WithTitle("Mwenge Secondary School"),
		olevel.WithSlotConfig(olevel.SlotConfig{
			Driver: olevel.DriverSQLite,
			Path:   "olevel-demo.db",
		}),
		olevel.WithLogger(logger),
		olevel.WithChangeCallback(func(ch olevel.Change) {
			if ch.Op == "clear" {
				logger.Warn("all students cleared")
			}
		}),
	)
	if err != nil {
		slog.Error("failed to create app", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════════════════╗")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   O-Level Records Demo                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Open http://localhost:8080 in your browser          ║")
	fmt.Println("  ║   Data is kept in olevel-demo.db                      ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Press Ctrl+C to stop                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ╚═══════════════════════════════════════════════════════╝")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Start(ctx); err != nil {
		slog.Error("olevel error", "error", err)
		os.Exit(1)
	}
}
