package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/logger"
	"alfredoptarigan/ai-interviewer/internal/services"
)

var (
	watchInterval time.Duration
	endStray      bool
)

var cancelCmd = &cobra.Command{
	Use:   "cancel <interviewId>",
	Short: "Cancel an open interview and end its call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid interview id: %w", err)
		}

		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Interview.Cancel(cmd.Context(), id); err != nil {
			return err
		}
		a.Log.Info("interview cancelled", zap.String(logger.FieldInterviewID, id.String()))
		return nil
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <interviewId>",
	Short: "Score a completed interview and print the verdict",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid interview id: %w", err)
		}

		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Interview.Evaluate(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var questionsCmd = &cobra.Command{
	Use:   "questions <jobPositionId>",
	Short: "Generate and store the question set for a job position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid job position id: %w", err)
		}

		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Questions.GenerateForJob(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync <interviewId>",
	Short: "Pull the call state from the voice platform into the interview",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid interview id: %w", err)
		}

		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		interview, err := a.Interview.Sync(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(interview)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch <callId>",
	Short: "Follow a live call and apply its lifecycle to the interview",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		callID := args[0]

		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		log := a.Log.With(zap.String(logger.FieldCallID, callID))

		reconcile := func(call *services.Call) {
			if err := a.Interview.ReconcileCall(ctx, call); err != nil {
				log.Error("failed to apply call state", zap.Error(err))
			}
		}

		session := services.NewCallSession(a.Vapi, callID, watchInterval, services.SessionCallbacks{
			OnStart: func(call *services.Call) {
				log.Info("call started")
				reconcile(call)
			},
			OnEnd: func(call *services.Call) {
				log.Info("call ended", zap.String("reason", call.EndedReason))
				reconcile(call)
			},
			OnError: func(err error) {
				log.Warn("failed to poll call", zap.Error(err))
			},
		})

		_, err = session.Watch(ctx)
		return err
	},
}

var callsCmd = &cobra.Command{
	Use:   "calls",
	Short: "List voice platform calls with the interviews they belong to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		overviews, err := a.Interview.Calls(cmd.Context())
		if err != nil {
			return err
		}

		if endStray {
			for _, o := range overviews {
				if !o.Stray {
					continue
				}
				if err := a.Vapi.EndCall(cmd.Context(), o.CallID); err != nil {
					a.Log.Warn("failed to end stray call", zap.String(logger.FieldCallID, o.CallID), zap.Error(err))
					continue
				}
				a.Log.Info("stray call ended", zap.String(logger.FieldCallID, o.CallID))
			}
		}

		return printJSON(overviews)
	},
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the transcript search index from evaluated interviews",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if a.Index == nil {
			return fmt.Errorf("interview index is not configured, set QDRANT_URL and GEMINI_API_KEY")
		}

		interviews, err := a.Interviews.FindEvaluated(cmd.Context())
		if err != nil {
			return err
		}

		var failed int
		for i := range interviews {
			iv := &interviews[i]
			if err := a.Index.IndexInterview(cmd.Context(), iv); err != nil {
				failed++
				a.Log.Warn("failed to index interview", zap.String(logger.FieldInterviewID, iv.ID.String()), zap.Error(err))
			}
		}

		a.Log.Info("reindex finished", zap.Int("interviews", len(interviews)), zap.Int("failed", failed))
		if failed > 0 {
			return fmt.Errorf("%d of %d interviews failed to index", failed, len(interviews))
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 5*time.Second, "polling interval")
	callsCmd.Flags().BoolVar(&endStray, "end-stray", false, "end live calls that no open interview owns")

	rootCmd.AddCommand(cancelCmd, evaluateCmd, questionsCmd, syncCmd, watchCmd, callsCmd, reindexCmd)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
