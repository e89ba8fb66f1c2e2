package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alem-hub/exam-schedule-hub/config"
	"github.com/alem-hub/exam-schedule-hub/internal/application/command"
	"github.com/alem-hub/exam-schedule-hub/internal/application/query"
	"github.com/alem-hub/exam-schedule-hub/internal/domain/schedule"
	"github.com/alem-hub/exam-schedule-hub/internal/domain/shared"
	"github.com/alem-hub/exam-schedule-hub/internal/infrastructure/calendar"
	"github.com/alem-hub/exam-schedule-hub/internal/infrastructure/csvsource"
	"github.com/alem-hub/exam-schedule-hub/internal/infrastructure/persistence/jsonfile"
	"github.com/alem-hub/exam-schedule-hub/internal/infrastructure/persistence/redis"
	httpserver "github.com/alem-hub/exam-schedule-hub/internal/interface/http"
	"github.com/alem-hub/exam-schedule-hub/internal/interface/http/handlers"
	"github.com/alem-hub/exam-schedule-hub/pkg/circuitbreaker"
	"github.com/alem-hub/exam-schedule-hub/pkg/logger"
	"github.com/alem-hub/exam-schedule-hub/pkg/retry"
)

// maxLoggedValues caps unmatched lists in log lines; the report has them all.
const maxLoggedValues = 20

// ══════════════════════════════════════════════════════════════════════════════
// BUILD
// ══════════════════════════════════════════════════════════════════════════════

func runBuild(ctx context.Context, cfg *config.Config, log *logger.Logger, args []string) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	var p pathFlags
	p.register(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}

	handler := command.NewBuildScheduleHandler(
		csvsource.NewReader(csvsource.Paths{Roster: p.roster, Theory: p.theory, Practical: p.practical}),
		jsonfile.NewStore(p.out),
		reportWriter(p.report),
		markers(cfg),
	)

	res, err := handler.Handle(ctx, command.BuildScheduleCommand{DryRun: p.dryRun})
	if err != nil {
		log.Error("build failed", logger.Err(err))
		return err
	}

	log = log.With(logger.RunID(res.RunID))
	if res.Students == 0 {
		log.Warn("roster has no valid rows, writing an empty schedule")
	} else {
		log.Info("students loaded", logger.Count("students", res.Students))
	}
	log.Info("theory entries assigned",
		logger.Count("rows", res.Theory.Rows),
		logger.Count("skipped", res.Theory.Skipped),
		logger.Count("entries", res.TheoryEntries),
	)
	log.Info("practical entries assigned",
		logger.Count("day_blocks", res.Practical.DayBlocks),
		logger.Count("cells", res.Practical.Cells),
		logger.Count("entries", res.PracticalEntries),
	)
	logDiagnostics(log, res.Diagnostics)
	logSave(log, res.Save, p.dryRun, res.Duration)
	logReportErr(log, res.ReportErr, p.report)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ENRICH
// ══════════════════════════════════════════════════════════════════════════════

func runEnrich(ctx context.Context, cfg *config.Config, log *logger.Logger, args []string) error {
	fs := flag.NewFlagSet("enrich", flag.ContinueOnError)
	var p pathFlags
	p.register(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}

	handler := command.NewEnrichScheduleHandler(
		csvsource.NewReader(csvsource.Paths{Practical: p.practical}),
		jsonfile.NewStore(p.out),
		reportWriter(p.report),
		markers(cfg),
	)

	res, err := handler.Handle(ctx, command.EnrichScheduleCommand{DryRun: p.dryRun})
	if err != nil {
		log.Error("enrichment failed, artifact left untouched", logger.Err(err), logger.Path(p.out))
		return err
	}

	log = log.With(logger.RunID(res.RunID))
	log.Info("practical entries enriched",
		logger.Count("students", res.Students),
		logger.Count("duplicates", res.Duplicates),
		logger.Count("processed", res.Processed),
		logger.Count("matched", res.Matched),
		logger.Count("updated", res.Updated),
		logger.Count("changed", res.Changed),
	)
	logDiagnostics(log, res.Diagnostics)
	logSave(log, res.Save, p.dryRun, res.Duration)
	logReportErr(log, res.ReportErr, p.report)
	return nil
}

func reportWriter(path string) schedule.ReportWriter {
	if path == "" {
		return nil
	}
	return jsonfile.NewReportFile(path)
}

func logDiagnostics(log *logger.Logger, diags *schedule.Diagnostics) {
	for kind, n := range diags.Summary() {
		log.Debug("diagnostics", logger.String("kind", string(kind)), logger.Count("count", n))
	}

	warnList := func(msg string, kind schedule.DiagnosticKind) {
		values := diags.Values(kind)
		if len(values) == 0 {
			return
		}
		shown := values
		if len(shown) > maxLoggedValues {
			shown = shown[:maxLoggedValues]
		}
		log.Warn(msg, logger.Count("count", len(values)), logger.Strings("values", shown))
	}

	warnList("unmatched names", schedule.DiagUnmatchedName)
	warnList("unmatched roll parts", schedule.DiagUnmatchedRollPart)
	warnList("invalid roll parts", schedule.DiagInvalidRollPart)
	warnList("unmatched practical subjects", schedule.DiagUnmatchedSubject)
	warnList("duplicate roll numbers", schedule.DiagDuplicateRoll)
}

// logReportErr warns about a report that failed after the artifact was saved.
func logReportErr(log *logger.Logger, err error, path string) {
	if err == nil {
		return
	}
	log.Warn("artifact saved, diagnostics report not written", logger.Path(path), logger.Err(err))
}

func logSave(log *logger.Logger, res schedule.SaveResult, dryRun bool, took time.Duration) {
	switch {
	case dryRun:
		log.Info("dry run, nothing written", logger.Latency(took))
	case res.Unchanged:
		log.Info("artifact unchanged", logger.Path(res.Path), logger.String("digest", res.Digest), logger.Latency(took))
	default:
		log.Info("artifact written",
			logger.Path(res.Path),
			logger.Count("bytes", res.Bytes),
			logger.String("digest", res.Digest),
			logger.Latency(took),
		)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVE
// ══════════════════════════════════════════════════════════════════════════════

func runServe(ctx context.Context, cfg *config.Config, log *logger.Logger, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	artifact := fs.String("artifact", cfg.Output.ArtifactPath, "schedule artifact (JSON)")
	port := fs.Int("port", cfg.HTTP.Port, "listen port")
	purge := fs.Bool("purge-cache", false, "drop cached responses of earlier datasets on start")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА АРТЕФАКТА
	// ─────────────────────────────────────────────────────────────────────────
	data, err := query.LoadDataset(ctx, jsonfile.NewStore(*artifact))
	if err != nil {
		return fmt.Errorf("failed to load artifact: %w", err)
	}
	log.Info("artifact loaded",
		logger.Path(*artifact),
		logger.Count("students", data.Len()),
		logger.String("version", data.Version()),
	)
	if n := data.Duplicates(); n > 0 {
		log.Warn("artifact repeats roll numbers, lookups return the first record", logger.Count("duplicates", n))
	}

	health := handlers.NewCompositeHealthChecker(cfg.App.Version)
	health.AddCheck("dataset", handlers.NewDatasetCheck(data))

	// ─────────────────────────────────────────────────────────────────────────
	// 2. REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var cache query.ResponseCache
	if cfg.Redis.Enabled {
		rc, err := connectCache(ctx, cfg, log)
		if err != nil {
			log.Warn("failed to connect to Redis, caching disabled", logger.Err(err))
		} else {
			defer rc.Close()
			breaker := circuitbreaker.CacheBreaker(func(name string, from, to circuitbreaker.State) {
				log.Warn("circuit breaker state changed",
					logger.String("breaker", name),
					logger.String("from", from.String()),
					logger.String("to", to.String()),
				)
			})
			sc := redis.NewScheduleCache(rc, cfg.Redis.TTL, breaker)
			if *purge {
				if err := sc.Purge(ctx, data.Version()); err != nil {
					log.Warn("failed to purge response cache", logger.Err(err))
				} else {
					log.Info("response cache purged", logger.String("kept_version", data.Version()))
				}
			}
			cache = sc
			health.AddOptionalCheck("cache", handlers.NewCacheCheck(sc))
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	renderer := calendar.NewGenerator(calendar.Config{
		DefaultYear: cfg.App.ExamYear,
		Location:    cfg.App.Location,
	})

	deps := httpserver.Dependencies{
		SearchStudentsHandler: query.NewSearchStudentsHandler(data, cache, cfg.HTTP.DefaultSearchLimit, cfg.HTTP.MaxSearchLimit),
		GetStudentHandler:     query.NewGetStudentHandler(data),
		ExportCalendarHandler: query.NewExportCalendarHandler(data, renderer, cache),
		GetStatsHandler:       query.NewGetStatsHandler(data),
		DatasetVersion:        data.Version(),
		Logger:                log,
		HealthChecker:         health,
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	srvCfg := httpserver.DefaultConfig()
	srvCfg.Host = cfg.HTTP.Host
	srvCfg.Port = *port
	srvCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	srvCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	srvCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	srvCfg.EnableCORS = cfg.HTTP.EnableCORS
	srvCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	srvCfg.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	srvCfg.DefaultSearchLimit = cfg.HTTP.DefaultSearchLimit
	srvCfg.Version = cfg.App.Version

	srv := httpserver.NewServer(srvCfg, deps)
	errCh := srv.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 5. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func connectCache(ctx context.Context, cfg *config.Config, log *logger.Logger) (*redis.Cache, error) {
	rcfg := redis.DefaultConfig()
	rcfg.Host = cfg.Redis.Host
	rcfg.Port = cfg.Redis.Port
	rcfg.Password = cfg.Redis.Password
	rcfg.DB = cfg.Redis.DB
	rcfg.DialTimeout = cfg.Redis.DialTimeout

	r := retry.CacheConnectRetrier(cfg.Redis.ConnectAttempts, func(attempt int, err error, delay time.Duration) {
		log.Warn("Redis connection failed, retrying",
			logger.Int("attempt", attempt),
			logger.Err(err),
			logger.Duration("delay", delay),
		)
	})
	return redis.ConnectWithRetry(ctx, rcfg, r)
}

// ══════════════════════════════════════════════════════════════════════════════
// ICS
// ══════════════════════════════════════════════════════════════════════════════

func runICS(ctx context.Context, cfg *config.Config, log *logger.Logger, args []string) error {
	fs := flag.NewFlagSet("ics", flag.ContinueOnError)
	artifact := fs.String("artifact", cfg.Output.ArtifactPath, "schedule artifact (JSON)")
	roll := fs.String("roll", "", "roll number of the student (required)")
	outDir := fs.String("dir", ".", `output directory, or "-" for stdout`)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *roll == "" {
		return fmt.Errorf("%w: -roll is required", errUsage)
	}

	snap, err := jsonfile.NewStore(*artifact).Load(ctx)
	if err != nil {
		return err
	}
	rec, ok := query.NewDataset(snap, time.Now()).Get(*roll)
	if !ok {
		return fmt.Errorf("%s: %w", *roll, shared.ErrStudentNotFound)
	}

	gen := calendar.NewGenerator(calendar.Config{
		DefaultYear: cfg.App.ExamYear,
		Location:    cfg.App.Location,
	})
	res := gen.Generate(rec)
	for _, sk := range res.Skipped {
		log.Warn("exam left out of calendar",
			logger.RollNo(*roll),
			logger.String("subject", sk.Subject),
			logger.String("date", sk.Date),
			logger.String("reason", sk.Reason),
		)
	}

	if *outDir == "-" {
		_, err := fmt.Fprint(os.Stdout, res.Body)
		return err
	}

	path := filepath.Join(*outDir, calendar.Filename(rec))
	if err := jsonfile.WriteFileAtomic(path, []byte(res.Body)); err != nil {
		return errors.Join(shared.ErrArtifactWrite, err)
	}
	log.Info("calendar written", logger.RollNo(*roll), logger.Path(path), logger.Count("events", res.Events))
	return nil
}
