// Command divvyd serves the divvy rate-limit decision protocol: it loads a
// rule table and a backend, then answers HIT requests over TCP until asked
// to shut down.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp/v3"
	"golang.org/x/term"

	"github.com/divvydb/divvy/rules"
	"github.com/divvydb/divvy/server"
	"github.com/divvydb/divvy/server/metrics"
	"github.com/divvydb/divvy/store"
	"github.com/divvydb/divvy/util"
)

// Exit codes.
const (
	exitOK             = 0
	exitConfigError    = 1
	exitBindFailure    = 2
	exitBackendFailure = 3
)

type options struct {
	Rules                 string `long:"rules" description:"path to the INI rule file" required:"true" value-name:"path"`
	Config                string `long:"config" description:"optional YAML ServerConfig overriding listen/backend/resource defaults" value-name:"path"`
	Listen                string `long:"listen" description:"TCP listen address (host:port, \":0\" for ephemeral)" value-name:"addr"`
	Backend               string `long:"backend" description:"backend kind: redis, postgres, mysql, mssql, sqlite, memory" value-name:"kind"`
	BackendDSN            string `long:"backend-dsn" description:"backend connection string" value-name:"dsn"`
	BackendPasswordPrompt bool   `long:"backend-password-prompt" description:"prompt for the backend password instead of embedding it in --backend-dsn"`
	MaxConnections        int    `long:"max-connections" description:"reject accepts beyond this many concurrent connections (0 = unbounded)" value-name:"n"`
	FailOpen              bool   `long:"fail-open" description:"reply allow on backend failure (default)"`
	FailClosed            bool   `long:"fail-closed" description:"reply deny on backend failure"`
	Debug                 bool   `long:"debug" description:"pretty-print the compiled rule table before serving"`
	LogLevel              string `long:"log-level" description:"debug, info, warn, or error" default:"info" value-name:"level"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[options]"
	if _, err := parser.ParseArgs(args); err != nil {
		if flags.WroteHelp(err) {
			return exitOK
		}
		return exitConfigError
	}

	logger := util.NewLogger(util.ParseLogLevel(opts.LogLevel))
	slog.SetDefault(logger)

	svcConfig, err := rules.LoadServerConfig(opts.Config)
	if err != nil {
		logger.Error("failed to load server config", "error", err)
		return exitConfigError
	}
	applyOverrides(&svcConfig, opts)

	table, err := rules.LoadConfig(opts.Rules)
	if err != nil {
		logger.Error("failed to load rule file", "error", err)
		return exitConfigError
	}
	logger.Info("rule table loaded", "rules", table.Len())

	if opts.Debug {
		dumpRuleTable(table)
	}

	dsn := svcConfig.BackendDSN
	if opts.BackendPasswordPrompt {
		dsn, err = promptPassword(dsn)
		if err != nil {
			logger.Error("failed to read backend password", "error", err)
			return exitBackendFailure
		}
	}

	st, err := store.New(store.Kind(svcConfig.Backend), dsn)
	if err != nil {
		logger.Error("failed to initialize backend", "backend", svcConfig.Backend, "error", err)
		return exitBackendFailure
	}
	defer st.Close()

	srv := server.New(server.Config{
		ListenAddr:      svcConfig.ListenAddr,
		MaxLineBytes:    svcConfig.MaxLineBytes,
		MaxConnections:  svcConfig.MaxConnections,
		AcceptRateLimit: svcConfig.AcceptRateLimit,
		ShutdownGrace:   svcConfig.ShutdownGrace,
		FailOpen:        svcConfig.FailOpen,
	}, table, st, metrics.NewLogSink(logger), logger)

	if err := srv.Listen(); err != nil {
		logger.Error("failed to bind listener", "addr", svcConfig.ListenAddr, "error", err)
		return exitBindFailure
	}
	logger.Info("listening", "addr", srv.Addr().String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx); err != nil {
		logger.Error("server exited with error", "error", err)
		return exitBindFailure
	}
	return exitOK
}

// applyOverrides layers CLI flags actually set by the user over the
// ServerConfig loaded from YAML/defaults -- the CLI always wins.
func applyOverrides(cfg *rules.ServerConfig, opts options) {
	if opts.Listen != "" {
		cfg.ListenAddr = opts.Listen
	}
	if opts.Backend != "" {
		cfg.Backend = opts.Backend
	}
	if opts.BackendDSN != "" {
		cfg.BackendDSN = opts.BackendDSN
	}
	if opts.MaxConnections != 0 {
		cfg.MaxConnections = opts.MaxConnections
	}
	if opts.FailClosed {
		cfg.FailOpen = false
	}
	if opts.FailOpen {
		cfg.FailOpen = true
	}
}

// promptPassword reads a backend password interactively via
// term.ReadPassword and splices it into dsn's existing connection string
// as a trailing query parameter divvy's store adapters accept.
func promptPassword(dsn string) (string, error) {
	fmt.Fprint(os.Stderr, "Enter backend password: ")
	pass, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return dsn + "&password=" + string(pass), nil
}

// dumpRuleTable pretty-prints the compiled rule table, in table order,
// before the server starts accepting connections.
func dumpRuleTable(table *rules.Table) {
	lines := util.TransformSlice(table.Rules(), func(r *rules.Rule) string {
		return fmt.Sprintf("%s -> credit=%d reset=%ds actor=%q", r.Describe(), r.CreditLimit, r.ResetSeconds, r.ActorField)
	})
	for i, line := range lines {
		pp.Printf("rule[%d] %s\n", i, line)
	}
}
