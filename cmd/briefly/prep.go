package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/briefly/internal/orchestrator"
)

func prepCmd(flags *globalFlags) *cobra.Command {
	var (
		asJSON  bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "prep [request]",
		Short: "Prepare one briefing and print it",
		Long: `Prepare one briefing and print it.

Examples:
  briefly prep "Prep me for standup"
  briefly prep --json "What PRs did I ship?"
  briefly prep --verbose "Status on auth feature?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stderr := cmd.ErrOrStderr()

			var opts []orchestrator.Option
			var progressDone chan struct{}
			var reporter *orchestrator.ProgressReporter
			if verbose {
				reporter = orchestrator.NewProgressReporter()
				opts = append(opts, orchestrator.WithProgress(reporter.Emit))
				progressDone = make(chan struct{})
				go func() {
					defer close(progressDone)
					for ev := range reporter.Subscribe() {
						fmt.Fprintln(stderr, orchestrator.FormatProgress(ev))
					}
				}()
			}

			a, err := newApp(ctx, flags, opts...)
			if err != nil {
				if reporter != nil {
					reporter.Close()
					<-progressDone
				}
				return err
			}
			defer a.Close()

			resp := a.pipeline.Prepare(ctx, orchestrator.Request{
				Transcript: strings.Join(args, " "),
			})

			if reporter != nil {
				reporter.Close()
				<-progressDone
				if n := reporter.Dropped(); n > 0 {
					fmt.Fprintf(stderr, "  (%d progress events dropped)\n", n)
				}
				plan := orchestrator.PlanFor(resp.Result.Classification)
				fmt.Fprintln(stderr, orchestrator.FormatPlanHeader(resp.RequestID, plan))
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(resp); err != nil {
					return err
				}
			} else if !resp.Failed() {
				fmt.Fprintln(out, resp.Result.Summary)
			}

			for _, s := range resp.Steps {
				if s.Status == orchestrator.StepError && s.Name != orchestrator.StepSynthesizer {
					fmt.Fprintf(stderr, "warning: %s\n", s.Error)
				}
			}
			if resp.Failed() {
				return errors.New(strings.Join(resp.Errors, "; "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full response as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print step progress to stderr")
	return cmd
}
