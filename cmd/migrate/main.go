package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dsi-erp/backend/internal/infrastructure/config"
	"github.com/dsi-erp/backend/internal/infrastructure/logger"
	"github.com/dsi-erp/backend/internal/infrastructure/migration"
	"github.com/dsi-erp/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

var defaultMigrationsPath = filepath.Join("internal", "infrastructure", "migration", migration.SourceDir)

var errUsage = errors.New("invalid arguments")

// env is what a command runs against. migrator is nil for offline commands.
type env struct {
	log      *zap.Logger
	args     []string
	path     string
	migrator *migration.Migrator
}

type command struct {
	usage   string
	offline bool
	run     func(e *env) error
}

var commands = map[string]command{
	"up":      {usage: "up                    Apply all pending migrations", run: func(e *env) error { return e.migrator.Up() }},
	"down":    {usage: "down                  Roll back all migrations", run: func(e *env) error { return e.migrator.Down() }},
	"step":    {usage: "step <n>              Apply n migrations, negative rolls back", run: runStep},
	"goto":    {usage: "goto <version>        Migrate to a specific version", run: runGoto},
	"version": {usage: "version               Show the current migration version", run: runVersion},
	"force":   {usage: "force <version>       Set the version without migrating, clears dirty", run: runForce},
	"create":  {usage: "create <name> [desc]  Create a new migration file pair", offline: true, run: runCreate},
	"list":    {usage: "list                  List the embedded migrations", offline: true, run: runList},
}

var commandOrder = []string{"up", "down", "step", "goto", "version", "force", "create", "list"}

func main() {
	path := flag.String("path", defaultMigrationsPath, "Migrations source directory for create and list")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		printUsage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{
		Level:      *logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	e := &env{log: log, args: args[1:], path: *path}
	if err := execute(cmd, e); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "%v\nusage: migrate %s\n", err, cmd.usage)
			os.Exit(2)
		}
		log.Fatal("Migration command failed", zap.String("command", args[0]), zap.Error(err))
	}
}

func execute(cmd command, e *env) error {
	if cmd.offline {
		return cmd.run(e)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	db, err := persistence.NewDatabase(&cfg.Database, e.log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	driver := cfg.Database.Driver
	if driver == "" {
		driver = config.DriverPostgres
	}
	m, err := migration.New(sqlDB, driver, e.log)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()

	e.migrator = m
	return cmd.run(e)
}

func intArg(e *env, name string) (int, error) {
	if len(e.args) == 0 {
		return 0, fmt.Errorf("%w: %s required", errUsage, name)
	}
	n, err := strconv.Atoi(e.args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", errUsage, name, e.args[0])
	}
	return n, nil
}

func runStep(e *env) error {
	n, err := intArg(e, "step count")
	if err != nil {
		return err
	}
	return e.migrator.Steps(n)
}

func runGoto(e *env) error {
	v, err := intArg(e, "version")
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("%w: version must not be negative", errUsage)
	}
	return e.migrator.GoTo(uint(v))
}

func runForce(e *env) error {
	v, err := intArg(e, "version")
	if err != nil {
		return err
	}
	e.log.Warn("Forcing migration version", zap.Int("version", v))
	return e.migrator.Force(v)
}

func runVersion(e *env) error {
	version, dirty, err := e.migrator.Version()
	if err != nil {
		return err
	}
	if version == 0 {
		e.log.Info("No migrations applied")
		return nil
	}
	e.log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

func runCreate(e *env) error {
	if len(e.args) == 0 {
		return fmt.Errorf("%w: migration name required", errUsage)
	}
	description := ""
	if len(e.args) > 1 {
		description = e.args[1]
	}
	mf, err := migration.CreateMigration(e.path, e.args[0], description)
	if err != nil {
		return err
	}
	e.log.Info("Migration created",
		zap.String("version", mf.Version),
		zap.String("up_file", mf.UpPath),
		zap.String("down_file", mf.DownPath),
	)
	return nil
}

func runList(e *env) error {
	embedded, err := migration.Embedded()
	if err != nil {
		return err
	}
	onDisk, err := migration.ListMigrations(e.path)
	if err != nil {
		e.log.Warn("Failed to list migrations on disk", zap.String("path", e.path), zap.Error(err))
	}
	e.log.Info("Available migrations", zap.Int("embedded", len(embedded)), zap.Int("on_disk", len(onDisk)))
	for _, m := range embedded {
		fmt.Println("  -", m)
	}
	return nil
}

func printUsage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "DSI ERP database migration tool\n\nUsage:\n  migrate [flags] <command> [arguments]\n\nCommands:")
	for _, name := range commandOrder {
		fmt.Fprintln(out, "  "+commands[name].usage)
	}
	fmt.Fprintln(out, "\nFlags:")
	flag.PrintDefaults()
	fmt.Fprintln(out, `
The database is configured like the server, e.g. DSI_DATABASE_DRIVER,
DSI_DATABASE_HOST, DSI_DATABASE_PASSWORD or DSI_DATABASE_PATH.

Examples:
  migrate up
  migrate step -1
  DSI_DATABASE_DRIVER=sqlite DSI_DATABASE_PATH=./dsi.db migrate up
  migrate create add_item_barcodes "Add barcode column to items"`)
}
