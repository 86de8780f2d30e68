package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"creditrisk/internal/scoring"
)

const (
	paymentHistoryFlag = "payment-history"
	utilizationFlag    = "utilization"
	historyYearsFlag   = "history-years"
	activeLoansFlag    = "active-loans"
	inquiriesFlag      = "inquiries"
	formatFlag         = "format"
)

func newEstimateCmd() *cli.Command {
	return &cli.Command{
		Name:   "estimate",
		Usage:  "Estimate a credit score from the five questionnaire answers",
		Action: runEstimate,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     paymentHistoryFlag,
				Usage:    "How often payments were missed [never, rarely, often]",
				Required: true,
			},
			&cli.IntFlag{
				Name:     utilizationFlag,
				Usage:    "Credit utilization percent (0-100)",
				Required: true,
			},
			&cli.IntFlag{
				Name:     historyYearsFlag,
				Usage:    "Length of credit history in years (0-20)",
				Required: true,
			},
			&cli.IntFlag{
				Name:  activeLoansFlag,
				Usage: "Number of active loans (0-10)",
			},
			&cli.IntFlag{
				Name:  inquiriesFlag,
				Usage: "Hard inquiries in the last six months (0-10)",
			},
			&cli.StringFlag{
				Name:  formatFlag,
				Usage: "Output format [text, json]",
				Value: formatText,
			},
		},
	}
}

func runEstimate(ctx context.Context, cmd *cli.Command) error {
	history, err := scoring.ParsePaymentHistory(cmd.String(paymentHistoryFlag))
	if err != nil {
		return err
	}
	profile := scoring.ApplicantProfile{
		PaymentHistory:     history,
		CreditUtilization:  int(cmd.Int(utilizationFlag)),
		CreditHistoryYears: int(cmd.Int(historyYearsFlag)),
		ActiveLoans:        int(cmd.Int(activeLoansFlag)),
		RecentInquiries:    int(cmd.Int(inquiriesFlag)),
	}
	if err := profile.Validate(); err != nil {
		return err
	}

	a := scoring.Assess(profile)
	newLogger(cmd).DebugContext(ctx, "score estimated", "score", int(a.Score), "band", a.Band.String())

	w := cmd.Root().Writer
	if cmd.String(formatFlag) == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	}
	return printAssessment(w, a)
}

func printAssessment(w io.Writer, a scoring.Assessment) error {
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	printf("Score: %d / %d (%s)\n", a.Score, scoring.MaxScore, a.Band)
	printf("%s\n\n", a.Summary)
	printf("%-28s %5d\n", "base", a.Breakdown.Base)
	for _, adj := range a.Breakdown.Adjustments {
		printf("%-28s %+5d\n", adj.Rule, adj.Points)
	}
	printf("%-28s %5d\n", "raw", a.Breakdown.Raw)
	if len(a.Tips) > 0 {
		printf("\nTips:\n")
		for _, tip := range a.Tips {
			printf("  - %s\n", tip)
		}
	}
	return err
}
