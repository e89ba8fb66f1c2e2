// Package main - точка входа Exam Schedule Hub.
//
// Команды:
//   - build:  CSV-выгрузки -> src/data/exam_data.json
//   - enrich: дописывает аудитории и преподавателей в практические экзамены
//   - serve:  поисковый API поверх готового артефакта
//   - ics:    календарь экзаменов одного студента
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: разбор таблиц без внешних зависимостей
// - Application: команды и запросы
// - Infrastructure: CSV, JSON-файл, Redis, iCalendar
// - Interface: HTTP endpoints
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alem-hub/exam-schedule-hub/config"
	"github.com/alem-hub/exam-schedule-hub/internal/domain/schedule"
	"github.com/alem-hub/exam-schedule-hub/pkg/logger"
)

const usage = `usage: examgen <command> [flags]

commands:
  build    read the CSV exports and write the schedule artifact
  enrich   patch practical venues and professors into the artifact
  serve    run the search API over the artifact
  ics      write one student's exam calendar

Run "examgen <command> -h" for command flags.
`

// errUsage is returned for an unknown or missing command.
var errUsage = errors.New("invalid usage")

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)

	name, rest := args[0], args[1:]
	log = log.With(logger.Operation(name))

	switch name {
	case "build":
		return runBuild(ctx, cfg, log, rest)
	case "enrich":
		return runEnrich(ctx, cfg, log, rest)
	case "serve":
		return runServe(ctx, cfg, log, rest)
	case "ics":
		return runICS(ctx, cfg, log, rest)
	case "help", "-h", "--help":
		fmt.Fprint(os.Stdout, usage)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}
}

func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Output = os.Stderr
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	opts.Format = logger.ParseFormat(cfg.Observability.LogFormat)
	opts.AddCaller = cfg.IsDevelopment()

	return logger.New(opts).With(
		logger.String("app", cfg.App.Name),
		logger.String("version", cfg.App.Version),
	)
}

// pathFlags registers the input and output path overrides shared by build
// and enrich.
type pathFlags struct {
	roster, theory, practical string
	out, report               string
	dryRun                    bool
}

func (p *pathFlags) register(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&p.roster, "roster", cfg.Sources.RosterPath, "student roster CSV")
	fs.StringVar(&p.theory, "theory", cfg.Sources.TheoryPath, "theory schedule CSV")
	fs.StringVar(&p.practical, "practical", cfg.Sources.PracticalPath, "practical schedule CSV")
	fs.StringVar(&p.out, "out", cfg.Output.ArtifactPath, "schedule artifact (JSON)")
	fs.StringVar(&p.report, "report", cfg.Output.ReportPath, "diagnostics report (JSON, optional)")
	fs.BoolVar(&p.dryRun, "dry-run", false, "run every pass but write nothing")
}

func markers(cfg *config.Config) schedule.Markers {
	m := schedule.DefaultMarkers()
	m.VenueKeyword = cfg.Sources.VenueKeyword
	return m
}
