// Command server runs the table engine behind a WebSocket upgrade handler:
// the minimum transport needed to exercise the socket port, not a general
// HTTP API — a GraphQL/HTTP surface is an explicit non-goal for this core.
package main

import (
	"net/http"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/pattrick12/poker/internal/server"
)

var cli struct {
	Config   string `short:"c" long:"config" default:"poker-server.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" long:"addr" help:"Listen address (overrides config)"`
	LogLevel string `short:"l" long:"log-level" default:"info" help:"Log level: debug, info, warn, error"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("poker-server"),
		kong.Description("Per-table deterministic Texas Hold'em engine"),
		kong.UsageOnError(),
	)

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if lvl, err := log.ParseLevel(cli.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	cfg, err := server.LoadConfig(cli.Config)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		kctx.Exit(1)
	}
	if cli.Addr != "" {
		cfg.ListenAddr = cli.Addr
	}

	audit, err := server.NewFileAuditLog(cfg.AuditLogPath, logger)
	if err != nil {
		logger.Error("failed to open audit log", "error", err, "path", cfg.AuditLogPath)
		kctx.Exit(1)
	}
	defer audit.Close()

	bus := server.NewAsyncBus(cfg.BusQueueDepth, logger)
	defer bus.Close()

	sockets := server.NewSocketSet()
	cache := server.NewInMemoryCache()

	registry := server.NewRegistry(cfg.LockLease(), nil, server.EngineConfig{
		Cache:  cache,
		Bus:    bus,
		Audit:  audit,
		Socket: sockets,
		Logger: logger,
	})
	defer registry.Shutdown()

	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/", func(w http.ResponseWriter, r *http.Request) {
		tableID := r.URL.Path[len("/ws/"):]
		if tableID == "" {
			http.Error(w, "missing table id", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("websocket upgrade failed", "error", err)
			return
		}

		engine := registry.GetOrCreate(tableID, cfg.DefaultMinBet)
		wrapped := server.NewConnection(conn, tableID, engine, logger)
		sockets.Add(tableID, wrapped)
		wrapped.OnClose(func() { sockets.Remove(tableID, wrapped) })
		wrapped.Start()
	})

	logger.Info("listening", "addr", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
		logger.Error("server exited", "error", err)
		kctx.Exit(1)
	}
}
