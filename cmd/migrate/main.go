package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/angelmondragon/productmgmt-backend/pkg/config"
	"github.com/angelmondragon/productmgmt-backend/pkg/db"
	"github.com/angelmondragon/productmgmt-backend/pkg/logger"
	"github.com/angelmondragon/productmgmt-backend/pkg/migrate"
	"github.com/joho/godotenv"
)

type options struct {
	cmd     string
	dir     string
	name    string
	version string
}

type dbCommand func(ctx context.Context, sqlDB *sql.DB, opts options) error

var dbCommands = map[string]dbCommand{
	"up":      gooseCommand("up"),
	"down":    gooseCommand("down"),
	"status":  gooseCommand("status"),
	"version": migrateToVersion,
}

func gooseCommand(command string) dbCommand {
	return func(ctx context.Context, sqlDB *sql.DB, opts options) error {
		return migrate.Run(ctx, sqlDB, opts.dir, command)
	}
}

func migrateToVersion(ctx context.Context, sqlDB *sql.DB, opts options) error {
	if opts.version == "" {
		return errors.New("missing -version for version command")
	}
	return migrate.MigrateToVersion(ctx, sqlDB, opts.dir, opts.version)
}

func main() {
	_ = godotenv.Load()

	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{ServiceName: "productmgmt-migrate"}).
			Error(context.Background(), "resource not working: config", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: "productmgmt-migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": opts.cmd,
		"dir": opts.dir,
	})

	if err := run(ctx, cfg, logg, opts, os.Stdout); err != nil {
		logg.Error(ctx, "migrate failed", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.cmd, "cmd", "up", "migration command: up|down|status|version|create|validate")
	fs.StringVar(&opts.dir, "dir", migrate.DefaultDir, "goose migrations directory")
	fs.StringVar(&opts.name, "name", "", "migration name (for create)")
	fs.StringVar(&opts.version, "version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

// run executes one command. create and validate only touch the migrations directory; every
// other command needs a postgres connection.
func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, opts options, stdout io.Writer) error {
	switch opts.cmd {
	case "create":
		if opts.name == "" {
			return errors.New("missing -name for create")
		}
		path, err := migrate.CreateSQLMigration(opts.dir, opts.name)
		if err != nil {
			return fmt.Errorf("create migration: %w", err)
		}
		fmt.Fprintln(stdout, "created migration:", path)
		return nil
	case "validate":
		if err := migrate.ValidateDir(opts.dir); err != nil {
			return fmt.Errorf("migration validation failed: %w", err)
		}
		fmt.Fprintln(stdout, "migration validation passed")
		return nil
	}

	command, ok := dbCommands[opts.cmd]
	if !ok {
		return fmt.Errorf("unknown -cmd value %q", opts.cmd)
	}
	if cfg.DB.IsSQLite() {
		return errors.New("goose migrations target postgres; sqlite schemas are bootstrapped by the api in dev")
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("resource not working: database: %w", err)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		return fmt.Errorf("resource not working: sql database: %w", err)
	}

	logg.Info(ctx, "migrate ready")
	if err := command(ctx, sqlDB, opts); err != nil {
		return fmt.Errorf("goose %s failed: %w", opts.cmd, err)
	}
	return nil
}
