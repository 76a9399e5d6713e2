package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"quiz-attempt-service/internal/app"
	"quiz-attempt-service/internal/config"
)

// NewHistoryCmd lists a student's recorded results.
func NewHistoryCmd(configPath *string) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded results for a student",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			service, cleanup, err := buildService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()
			return runHistory(cmd.Context(), service, userID, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "student user ID")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func runHistory(ctx context.Context, service *app.AttemptService, userID string, out io.Writer) error {
	records, err := service.History(ctx, userID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintf(out, "no results for %s\n", userID)
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tCOURSE\tSET\tSCORE\tPERCENT\tBAND")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%d%%\t%s\n",
			rec.CreatedAt.Format("2006-01-02"), rec.CourseName, rec.QuestionSetTitle,
			rec.Score, rec.MaxScore, rec.Percentage, rec.Band)
	}
	return tw.Flush()
}
