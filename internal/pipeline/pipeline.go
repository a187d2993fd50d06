// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the per-student report batch: load and validate the
// roster, then for each record derive insights, generate the narrative,
// render the document, attempt delivery, and write the audit row — strictly
// one record at a time, in roster order. A failure inside one record never
// aborts the batch; the retention purge is scheduled once after the loop.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/scoreazy/report-engine/internal/audit"
	"github.com/scoreazy/report-engine/internal/deliver"
	"github.com/scoreazy/report-engine/internal/insight"
	"github.com/scoreazy/report-engine/internal/logging"
	"github.com/scoreazy/report-engine/internal/render"
	"github.com/scoreazy/report-engine/internal/retention"
	"github.com/scoreazy/report-engine/internal/roster"
	"github.com/scoreazy/report-engine/pkg/types"
)

// Source supplies and validates the roster table. *roster.Loader is the
// production implementation.
type Source interface {
	Load(ctx context.Context) *roster.Table
	Validate(t *roster.Table) *roster.Table
}

// Pipeline wires the stages together. Build one per run via New.
type Pipeline struct {
	cfg      types.Config
	log      *logging.Logger
	source   Source
	engine   *insight.Engine
	renderer *render.Renderer
	mailer   *deliver.Mailer
	store    *audit.Store
	sched    *retention.Scheduler
}

// New assembles a Pipeline from its collaborators.
func New(cfg types.Config, source Source, engine *insight.Engine, renderer *render.Renderer,
	mailer *deliver.Mailer, store *audit.Store, sched *retention.Scheduler, log *logging.Logger) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		log:      log.With("component", "pipeline"),
		source:   source,
		engine:   engine,
		renderer: renderer,
		mailer:   mailer,
		store:    store,
		sched:    sched,
	}
}

// Run processes the whole roster and schedules the retention purge.
func (p *Pipeline) Run(ctx context.Context) (audit.Summary, error) {
	if err := p.bootstrapWorkDirs(); err != nil {
		return audit.Summary{}, err
	}

	table := p.source.Load(ctx)
	validated := p.source.Validate(table)
	records := roster.Records(validated)
	p.log.Info("roster validated", "records", len(records))

	runID, err := p.store.BeginRun(ctx)
	if err != nil {
		// The ledger is best-effort; the reports still matter without it.
		p.log.Error("opening audit run", "error", err)
	}

	var sum audit.Summary
	for _, rec := range records {
		select {
		case <-ctx.Done():
			return sum, ctx.Err()
		default:
		}

		result := p.processRecord(ctx, rec)
		if result.Analyzed {
			sum.Processed++
		} else {
			sum.Failed++
		}
		if result.Rendered {
			sum.Rendered++
		}
		if result.Delivered {
			sum.Delivered++
		}

		if runID != 0 {
			if err := p.store.RecordResult(ctx, runID, result); err != nil {
				p.log.Error("writing audit row", "student", result.Pseudonym, "error", err)
			}
		}
	}

	if runID != 0 {
		if err := p.store.FinishRun(ctx, runID, sum); err != nil {
			p.log.Error("closing audit run", "error", err)
		}
	}

	p.sched.ScheduleDeletion(time.Now().Add(p.cfg.Retention.Window))
	p.log.Info("pipeline complete",
		"processed", sum.Processed, "rendered", sum.Rendered,
		"delivered", sum.Delivered, "failed", sum.Failed)
	return sum, nil
}

// processRecord runs every stage for one student. Panics are caught here:
// an unexpected failure is logged with the pseudonymized id and the batch
// moves on.
func (p *Pipeline) processRecord(ctx context.Context, rec types.StudentRecord) (result audit.RecordResult) {
	pseud := retention.Pseudonymize(rec.ID, p.cfg.Retention.Salt)
	result.Pseudonym = pseud
	rlog := p.log.With("student", pseud)

	defer func() {
		if r := recover(); r != nil {
			rlog.Error("unexpected failure processing record", "panic", r)
		}
	}()

	rlog.Info("processing student")

	analysis := p.engine.Analyze(ctx, rec)
	style := insight.ClassifyVARK(rec)
	quote := roster.TeacherQuote(rec.ID)
	result.Analyzed = true

	narrative := p.engine.GenerateNarrative(ctx, rec, analysis, style, quote)

	p.stageAnalysis(pseud, style, quote, analysis, rlog)

	dest := filepath.Join(p.cfg.Render.ReportsDir, rec.ID+"_report.png")
	doc, err := p.renderer.Render(narrative, rec.AccPref, dest)
	if err != nil {
		rlog.Error("rendering report, skipping delivery", "error", err)
		return result
	}
	result.Rendered = true
	result.ReportPath = doc.Path

	if deliver.ValidAddress(rec.ContactEmail) {
		if err := p.mailer.Deliver(ctx, doc, rec.ContactEmail, rec.LangPref); err != nil {
			rlog.Error("delivery failed", "error", err)
		} else {
			result.Delivered = true
			rlog.Info("report delivered")
		}
	} else if rec.ContactEmail != "" {
		rlog.Warn("contact address is malformed, skipping delivery")
	}

	return result
}

// stagedAnalysis is the per-student working artifact written to the temp
// directory. It is purged with everything else at the retention deadline.
type stagedAnalysis struct {
	Pseudonym   string               `yaml:"pseudonym"`
	Style       types.StyleLabel     `yaml:"style"`
	Quote       string               `yaml:"teacher_quote"`
	Analysis    types.AnalysisResult `yaml:"analysis"`
	GeneratedAt string               `yaml:"generated_at"`
}

// stageAnalysis writes the analysis artifact. Best-effort: failures are
// logged and the record continues.
func (p *Pipeline) stageAnalysis(pseud string, style types.StyleLabel, quote string, analysis types.AnalysisResult, rlog *logging.Logger) {
	artifact := stagedAnalysis{
		Pseudonym:   pseud,
		Style:       style,
		Quote:       quote,
		Analysis:    analysis,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	data, err := yaml.Marshal(artifact)
	if err != nil {
		rlog.Error("encoding staged analysis", "error", err)
		return
	}
	path := filepath.Join(p.cfg.Render.TempDir, pseud+"_analysis.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		rlog.Error("writing staged analysis", "path", path, "error", err)
	}
}

// bootstrapWorkDirs creates the staging directories at startup.
func (p *Pipeline) bootstrapWorkDirs() error {
	for _, dir := range p.cfg.WorkDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating working directory %s: %w", dir, err)
		}
		p.log.Info("created directory", "dir", dir)
	}
	return nil
}
