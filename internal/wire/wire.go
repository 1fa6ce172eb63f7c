// Package wire provides dependency injection for the kin application.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	cliadapter "github.com/example/kin/internal/adapters/cli"
	"github.com/example/kin/internal/adapters/sqlite"
	"github.com/example/kin/internal/app"
	"github.com/example/kin/internal/config"
	"github.com/example/kin/internal/db"
	"github.com/example/kin/internal/logging"
	"github.com/example/kin/internal/ports/primary"
)

var (
	cfg    *config.Config
	logger *slog.Logger

	memberService    primary.MemberService
	identityService  primary.IdentityService
	lifeEventService primary.LifeEventService
	importService    primary.ImportService
	lineageService   primary.LineageService
	accountService   primary.AccountService
	logService       primary.LogService

	configOnce sync.Once
	once       sync.Once
)

// Config returns the effective configuration, loading it on first use.
// An unusable configuration ends the process.
func Config() *config.Config {
	configOnce.Do(initConfig)
	return cfg
}

// Logger returns the shared logger built from the configuration.
func Logger() *slog.Logger {
	configOnce.Do(initConfig)
	return logger
}

func initConfig() {
	var err error
	cfg, err = config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "kin: %v\n", err)
		os.Exit(1)
	}

	logger, err = logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		fmt.Fprintf(os.Stderr, "kin: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)
	db.SetPath(cfg.DBPath)
}

// Database returns the migrated database connection.
func Database() (*sql.DB, error) {
	configOnce.Do(initConfig)
	return db.GetDB()
}

// MemberService returns the singleton MemberService instance.
func MemberService() primary.MemberService {
	once.Do(initServices)
	return memberService
}

// IdentityService returns the singleton IdentityService instance.
func IdentityService() primary.IdentityService {
	once.Do(initServices)
	return identityService
}

// LifeEventService returns the singleton LifeEventService instance.
func LifeEventService() primary.LifeEventService {
	once.Do(initServices)
	return lifeEventService
}

// ImportService returns the singleton ImportService instance.
func ImportService() primary.ImportService {
	once.Do(initServices)
	return importService
}

// LineageService returns the singleton LineageService instance.
func LineageService() primary.LineageService {
	once.Do(initServices)
	return lineageService
}

// AccountService returns the singleton AccountService instance.
func AccountService() primary.AccountService {
	once.Do(initServices)
	return accountService
}

// LogService returns the singleton LogService instance.
func LogService() primary.LogService {
	once.Do(initServices)
	return logService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	database, err := Database()
	if err != nil {
		Logger().Error("failed to initialize database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}

	// Repositories run on the shared connection; services that write open
	// their own transactions through the store.
	store := sqlite.NewStore(database)
	accounts := app.NewAccountService(sqlite.NewAccountRepository(database), logger)

	memberService = app.NewMemberService(store, logger)
	identityService = app.NewIdentityService(store.Members())
	lifeEventService = app.NewLifeEventService(store, accounts, logger)
	importService = app.NewImportService(store, logger)
	lineageService = app.NewLineageService(store, cfg.LineageDepth, logger)
	accountService = accounts
	logService = app.NewLogService(sqlite.NewEventLogRepository(database))
}

// MemberAdapter returns a new MemberAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func MemberAdapter() *cliadapter.MemberAdapter {
	return MemberAdapterWithOutput(os.Stdout)
}

// MemberAdapterWithOutput returns a new MemberAdapter writing to out.
func MemberAdapterWithOutput(out io.Writer) *cliadapter.MemberAdapter {
	return cliadapter.NewMemberAdapter(MemberService(), IdentityService(), out)
}

// EventAdapter returns a new EventAdapter writing to stdout.
func EventAdapter() *cliadapter.EventAdapter {
	return EventAdapterWithOutput(os.Stdout)
}

// EventAdapterWithOutput returns a new EventAdapter writing to out.
func EventAdapterWithOutput(out io.Writer) *cliadapter.EventAdapter {
	return cliadapter.NewEventAdapter(LifeEventService(), out)
}

// ImportAdapter returns a new ImportAdapter writing to stdout.
func ImportAdapter() *cliadapter.ImportAdapter {
	return ImportAdapterWithOutput(os.Stdout)
}

// ImportAdapterWithOutput returns a new ImportAdapter writing to out.
func ImportAdapterWithOutput(out io.Writer) *cliadapter.ImportAdapter {
	return cliadapter.NewImportAdapter(ImportService(), out)
}

// LineageAdapter returns a new LineageAdapter writing to stdout.
func LineageAdapter() *cliadapter.LineageAdapter {
	return LineageAdapterWithOutput(os.Stdout)
}

// LineageAdapterWithOutput returns a new LineageAdapter writing to out.
func LineageAdapterWithOutput(out io.Writer) *cliadapter.LineageAdapter {
	return cliadapter.NewLineageAdapter(LineageService(), out)
}

// AccountAdapter returns a new AccountAdapter writing to stdout.
func AccountAdapter() *cliadapter.AccountAdapter {
	return AccountAdapterWithOutput(os.Stdout)
}

// AccountAdapterWithOutput returns a new AccountAdapter writing to out.
func AccountAdapterWithOutput(out io.Writer) *cliadapter.AccountAdapter {
	return cliadapter.NewAccountAdapter(AccountService(), out)
}

// LogAdapter returns a new LogAdapter writing to stdout.
func LogAdapter() *cliadapter.LogAdapter {
	return LogAdapterWithOutput(os.Stdout)
}

// LogAdapterWithOutput returns a new LogAdapter writing to out.
func LogAdapterWithOutput(out io.Writer) *cliadapter.LogAdapter {
	return cliadapter.NewLogAdapter(LogService(), out)
}
