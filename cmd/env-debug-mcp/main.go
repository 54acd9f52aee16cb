// Entry point for the env-debug-mcp tool host: stdio by default, HTTP or
// QUIC when configured, optional SQLite invocation audit.
package main

import (
	"context"
	"crypto/tls"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/leynos/env-debug-mcp/audit"
	"github.com/leynos/env-debug-mcp/dbopen"
	"github.com/leynos/env-debug-mcp/envtool"
	"github.com/leynos/env-debug-mcp/httpserve"
	"github.com/leynos/env-debug-mcp/quicserve"
)

const version = "0.1.0"

func main() {
	cfg := loadConfig()

	var lvl slog.Level
	switch cfg.LogLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	// Logs always go to stderr: under the stdio transport stdout carries
	// the JSON-RPC stream.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := []envtool.Option{envtool.WithLogger(logger)}

	if cfg.AuditDB != "" {
		db, err := dbopen.Open(cfg.AuditDB, dbopen.WithMkdirAll())
		if err != nil {
			slog.Error("audit db", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		auditLogger := audit.NewSQLiteLogger(db)
		if err := auditLogger.Init(); err != nil {
			slog.Error("audit init", "error", err)
			os.Exit(1)
		}
		opts = append(opts, envtool.WithAudit(auditLogger.Record))
		slog.Info("audit trail enabled", "path", cfg.AuditDB)
	}

	svc := envtool.New(opts...)

	mcpSrv := mcp.NewServer(&mcp.Implementation{
		Name:    "env-debug-mcp",
		Version: version,
	}, nil)
	svc.RegisterMCP(mcpSrv)

	var err error
	switch cfg.Transport {
	case "stdio":
		slog.Info("stdio transport ready")
		err = mcpSrv.Run(ctx, &mcp.StdioTransport{})

	case "http":
		err = httpserve.New(mcpSrv, httpserve.Config{
			Addr:          cfg.HTTPAddr,
			AuthTokenHash: cfg.AuthTokenHash,
		}, logger).Serve(ctx)

	case "quic":
		var tlsCfg *tls.Config
		if cfg.TLSCert != "" && cfg.TLSKey != "" {
			tlsCfg, err = quicserve.ServerTLSConfig(cfg.TLSCert, cfg.TLSKey)
		} else {
			tlsCfg, err = quicserve.SelfSignedTLSConfig()
		}
		if err != nil {
			slog.Error("QUIC TLS", "error", err)
			os.Exit(1)
		}
		var listener *quicserve.Listener
		listener, err = quicserve.NewListener(cfg.QUICAddr, tlsCfg, mcpSrv, logger)
		if err != nil {
			slog.Error("QUIC listener", "error", err)
			os.Exit(1)
		}
		defer listener.Close()
		err = listener.Serve(ctx)
	}

	if err != nil && ctx.Err() == nil {
		slog.Error("serve", "transport", cfg.Transport, "error", err)
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

// loadConfig reads the optional YAML config file, then applies environment
// overrides so container deployments can tweak single values.
func loadConfig() *envtool.Config {
	var cfg *envtool.Config
	if path := os.Getenv("ENV_DEBUG_CONFIG"); path != "" {
		c, err := envtool.LoadConfigFile(path)
		if err != nil {
			slog.Error("load config", "path", path, "error", err)
			os.Exit(1)
		}
		cfg = c
	} else {
		cfg = envtool.DefaultConfig()
	}

	cfg.Transport = env("MCP_TRANSPORT", cfg.Transport)
	cfg.HTTPAddr = env("HTTP_ADDR", cfg.HTTPAddr)
	cfg.QUICAddr = env("QUIC_ADDR", cfg.QUICAddr)
	cfg.TLSCert = env("TLS_CERT", cfg.TLSCert)
	cfg.TLSKey = env("TLS_KEY", cfg.TLSKey)
	cfg.AuthTokenHash = env("AUTH_TOKEN_HASH", cfg.AuthTokenHash)
	cfg.AuditDB = env("AUDIT_DB", cfg.AuditDB)
	cfg.LogLevel = env("LOG_LEVEL", cfg.LogLevel)
	return cfg
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
