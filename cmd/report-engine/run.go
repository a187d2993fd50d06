// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scoreazy/report-engine/internal/audit"
	"github.com/scoreazy/report-engine/internal/deliver"
	"github.com/scoreazy/report-engine/internal/insight"
	"github.com/scoreazy/report-engine/internal/logging"
	"github.com/scoreazy/report-engine/internal/pipeline"
	"github.com/scoreazy/report-engine/internal/render"
	"github.com/scoreazy/report-engine/internal/retention"
	"github.com/scoreazy/report-engine/internal/retry"
	"github.com/scoreazy/report-engine/internal/roster"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate and deliver reports for every student in the roster",
	Long: `Run executes the full batch: load and validate the roster, then for each
student derive insights, generate the narrative, render the report, and
email it. The staged-artifact purge is scheduled for 24 hours after the
batch completes; pass --hold to keep the process alive until it fires.

A failure inside one record never aborts the batch, and a failed batch is
logged rather than propagated. Only missing startup configuration (such as
the Gemini API key) prevents the run from starting.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().Bool("hold", false, "block until the scheduled purge has fired")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	mode, _ := rootCmd.PersistentFlags().GetString("log-mode")
	log, err := logging.New(mode)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := buildConfig()

	backend, err := insight.NewGeminiBackend(ctx, cfg.AI)
	if err != nil {
		return fmt.Errorf("configuring generative backend: %w", err)
	}

	store, err := audit.Open(cfg.AuditDB)
	if err != nil {
		return fmt.Errorf("opening run ledger: %w", err)
	}
	defer store.Close()

	renderer, err := render.NewRenderer(cfg.Render, log)
	if err != nil {
		return fmt.Errorf("building renderer: %w", err)
	}

	var transport deliver.Transport
	transport, err = deliver.NewSMTPTransport(cfg.Mail)
	if err != nil {
		log.Warn("mail transport unavailable, reports will not be delivered", "error", err)
		transport = unconfiguredTransport{}
	}

	policy := retry.DefaultPolicy()
	policy.MaxAttempts = cfg.AI.MaxAttempts

	sched := retention.NewScheduler(cfg.Retention, cfg.WorkDirs, log)
	p := pipeline.New(cfg,
		roster.NewLoader(cfg.Roster, log),
		insight.NewEngine(backend, policy, log),
		renderer,
		deliver.NewMailer(transport, log),
		store,
		sched,
		log)

	if _, err := p.Run(ctx); err != nil {
		// Batch failures are logged, not propagated: partial output and the
		// scheduled purge still stand.
		log.Error("fatal error in report run", "error", err)
		return nil
	}

	if hold, _ := cmd.Flags().GetBool("hold"); hold {
		log.Info("holding process until the scheduled purge fires")
		sched.Wait()
	}
	return nil
}

// unconfiguredTransport stands in when no SMTP host is configured. Every
// send fails, which the pipeline logs per record without aborting.
type unconfiguredTransport struct{}

func (unconfiguredTransport) Send(context.Context, deliver.Message) error {
	return fmt.Errorf("mail transport not configured")
}
