package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/basileia/proxy/internal/command"
	"github.com/basileia/proxy/internal/config"
	"github.com/basileia/proxy/internal/logging"
	"github.com/basileia/proxy/internal/proxy"
	"github.com/basileia/proxy/internal/repository"
	"github.com/basileia/proxy/internal/state"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		logging.Error("config: %v\n", err)
		return 1
	}

	userBans, ipBans, whitelist, err := buildRepositories(cfg)
	if err != nil {
		logging.Error("repository: %v\n", err)
		return 1
	}

	shared := state.New(cfg.ServerStatus, userBans, ipBans, whitelist)
	handler := &command.Handler{UserBans: userBans, IpBans: ipBans, Whitelist: whitelist}

	srv := &proxy.Server{
		ListenAddr:  cfg.ListenAddr,
		BackendAddr: cfg.ProxiedAddr,
		Shared:      shared,
		Handler:     handler,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := srv.Run(ctx); err != nil {
		logging.Error("proxy: %v\n", err)
		return 1
	}
	return 0
}

// buildRepositories selects the MySQL-backed repository set when
// MYSQL_DSN is configured, otherwise the in-memory default (§6).
func buildRepositories(cfg *config.Config) (repository.UserBansRepository, repository.IpBansRepository, repository.WhitelistRepository, error) {
	if cfg.MySQLDSN == "" {
		kv := repository.NewMemoryKeyValueRepository()
		return repository.NewMemoryUserBansRepository(),
			repository.NewMemoryIpBansRepository(),
			repository.NewMemoryWhitelistRepository(kv),
			nil
	}

	db, err := repository.OpenMySQL(cfg.MySQLDSN)
	if err != nil {
		return nil, nil, nil, err
	}
	kv := repository.NewMySQLKeyValueRepository(db)
	return repository.NewMySQLUserBansRepository(db),
		repository.NewMySQLIpBansRepository(db),
		repository.NewMySQLWhitelistRepository(db, kv),
		nil
}
