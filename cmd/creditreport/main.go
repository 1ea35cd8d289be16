package main

// Print a unified credit report for one subject:
//   go run ./cmd/creditreport -aadhaar 123456789012 -pan ABCDE1234F -variant zscore

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"credit-backend/internal/assessments"
	"credit-backend/internal/bootstrap"
	"credit-backend/internal/scoring"
	"credit-backend/internal/shared/config"
	"credit-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()

	aadhaar := flag.String("aadhaar", "", "12 digit Aadhaar number")
	pan := flag.String("pan", "", "PAN, e.g. ABCDE1234F")
	variant := flag.String("variant", cfg.ScoreVariant, "score variant: "+strings.Join(scoring.VariantNames(), ", "))
	borrower := flag.String("borrower", "", "borrower name shown on the report")
	decision := flag.Bool("decision", false, "ask the model for an approve/reject decision")
	source := flag.String("source", cfg.BureauSource, "bureau source: hash, random, calculator, llm")
	save := flag.Bool("save", false, "also save the report to the object store")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	if strings.TrimSpace(*aadhaar) == "" || strings.TrimSpace(*pan) == "" {
		exitErr("-aadhaar and -pan are required")
	}

	telemetry.Init("warn", cfg.Env)
	err := run(cfg, options{
		request: assessments.Request{
			AadhaarNumber: *aadhaar,
			PanNumber:     *pan,
			BorrowerName:  *borrower,
			Variant:       *variant,
			WithDecision:  *decision,
		},
		source:  *source,
		save:    *save,
		timeout: *timeout,
	})
	telemetry.Sync()
	if err != nil {
		exitErr(err.Error())
	}
}

type options struct {
	request assessments.Request
	source  string
	save    bool
	timeout time.Duration
}

// run owns every resource Build opens, so they are closed before main exits.
func run(cfg config.Config, opts options) error {
	cfg.BureauSource = opts.source
	cfg.ApplicationStore = "memory"
	app, err := bootstrap.Build(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer app.Close(context.Background())

	svc := *app.AssessmentsService
	if !opts.save {
		svc.Store = nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	report, err := svc.GenerateReport(ctx, opts.request)
	if err != nil {
		return fmt.Errorf("failed to generate credit report: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
