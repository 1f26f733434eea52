package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/quorumlabs/council/internal/api"
	"github.com/quorumlabs/council/internal/config"
	"github.com/quorumlabs/council/internal/council"
	"github.com/quorumlabs/council/internal/db"
	"github.com/quorumlabs/council/internal/llm"
	"github.com/quorumlabs/council/internal/mcp"
	"github.com/quorumlabs/council/internal/persona"
	"github.com/quorumlabs/council/internal/search"
	"github.com/quorumlabs/council/pkg/audit"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "debate":
		cmdDebate(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	case "version":
		fmt.Printf("council %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`council — multi-agent debate engine

Usage:
  council serve  [--config config.toml] [--addr :8080]
  council debate [--config config.toml] [--topics tag,tag] <topic>
  council mcp    [--config config.toml]
  council version
  council help

Commands:
  serve     Start the HTTP server
  debate    Run one debate in the terminal and print the verdict
  mcp       Serve the council tools over MCP stdio
  version   Print version
  help      Show this help`)
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.toml")
	addr := fs.String("addr", "", "listen address (overrides config)")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer database.Close()

	auditLog := audit.NewSQLiteLogger(database.DB)
	if err := auditLog.Init(); err != nil {
		log.Fatalf("initializing audit log: %v", err)
	}
	defer auditLog.Close()

	manager := buildManager(cfg, database, logger)
	defer manager.Close()

	mux := http.NewServeMux()
	api.New(manager, database, logger).RegisterRoutes(mux)

	log.Printf("council %s listening on %s", version, cfg.Server.Addr)
	log.Printf("database: %s", cfg.Database.Path)
	if err := http.ListenAndServe(cfg.Server.Addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func cmdDebate(args []string) {
	fs := flag.NewFlagSet("debate", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.toml")
	topics := fs.String("topics", "", "comma-separated staffing hints")
	userContext := fs.String("context", "", "background about your situation")
	profile := fs.String("profile", "", "how the verdict should address you")
	fs.Parse(args)

	topic := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if topic == "" {
		log.Fatal("usage: council debate [flags] <topic>")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	client := llm.NewFromConfig(cfg.LLM)
	if len(client.Providers()) == 0 {
		log.Fatal("no LLM provider configured; set an API key in config.toml")
	}
	research := council.NewResearchAggregator(search.NewFromConfig(cfg.Search), logger)

	var hints []string
	for _, h := range strings.Split(*topics, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hints = append(hints, h)
		}
	}
	staff := persona.AutoStaff(hints)

	engine := council.NewEngine(council.Params{
		Client:        client,
		Research:      research,
		Visionary:     staff.VisionarySeat,
		Skeptic:       staff.SkepticSeat,
		ModelID:       cfg.LLM.PrimaryModel,
		FallbackModel: cfg.LLM.FallbackModel,
		Logger:        logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Topic: %s\n", topic)
	for _, a := range engine.Configs() {
		fmt.Printf("  %-9s %s\n", a.SeatID+":", a.DisplayName)
	}
	fmt.Println()

	if err := engine.StartDebate(ctx, topic, *userContext, *profile); err != nil {
		log.Fatalf("starting debate: %v", err)
	}

	done := make(chan struct{})
	go func() {
		engine.Run(ctx)
		close(done)
	}()

	printed := printNewTurns(engine, 0)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
loop:
	for {
		select {
		case <-done:
			break loop
		case <-ctx.Done():
			log.Fatal("interrupted")
		case <-ticker.C:
			printed = printNewTurns(engine, printed)
		}
	}
	printNewTurns(engine, printed)

	verdict, err := engine.GenerateVerdict(ctx)
	if err != nil {
		log.Fatalf("generating verdict: %v", err)
	}
	fmt.Printf("\n=== VERDICT ===\n\n%s\n", verdict)
}

func printNewTurns(engine *council.Engine, printed int) int {
	msgs := engine.Messages()
	for ; printed < len(msgs); printed++ {
		m := msgs[printed]
		fmt.Printf("[%s]\n%s\n\n", m.SpeakerID, m.Content)
	}
	return printed
}

func cmdMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.toml")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// stdout carries the MCP protocol; everything else goes to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer database.Close()

	auditLog := audit.NewSQLiteLogger(database.DB)
	if err := auditLog.Init(); err != nil {
		log.Fatalf("initializing audit log: %v", err)
	}
	defer auditLog.Close()

	manager := buildManager(cfg, database, logger)
	defer manager.Close()

	srv := mcp.NewServer(manager, auditLog)
	if err := mcpserver.ServeStdio(srv); err != nil {
		log.Fatalf("mcp server: %v", err)
	}
}

func buildManager(cfg *config.Config, database *db.DB, logger *slog.Logger) *council.Manager {
	client := llm.NewFromConfig(cfg.LLM)
	if len(client.Providers()) == 0 {
		logger.Warn("no LLM provider configured; debates will fail to start")
	}
	research := council.NewResearchAggregator(search.NewFromConfig(cfg.Search), logger)
	return council.NewManager(client, research, database, cfg.LLM.PrimaryModel, cfg.LLM.FallbackModel, logger)
}
