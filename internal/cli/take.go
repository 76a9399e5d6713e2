package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"quiz-attempt-service/internal/app"
	"quiz-attempt-service/internal/config"
	"quiz-attempt-service/internal/domain"
)

type takeOptions struct {
	setID    string
	userID   string
	userName string
}

// NewTakeCmd runs one attempt interactively over stdin/stdout.
func NewTakeCmd(configPath *string) *cobra.Command {
	opts := takeOptions{}
	cmd := &cobra.Command{
		Use:   "take",
		Short: "Take a quiz attempt in the terminal",
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
			return runTake(cmd.Context(), service, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.setID, "set", "", "question set ID")
	cmd.Flags().StringVar(&opts.userID, "user", "", "student user ID")
	cmd.Flags().StringVar(&opts.userName, "name", "", "student display name")
	_ = cmd.MarkFlagRequired("set")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

var errInputClosed = errors.New("input closed before the attempt finished")

func runTake(ctx context.Context, service *app.AttemptService, opts takeOptions, in io.Reader, out io.Writer) error {
	if _, err := service.Select(ctx, opts.userID, opts.setID); err != nil {
		return err
	}
	session, err := service.Begin(ctx, opts.userID)
	if err != nil {
		return err
	}
	updates, cancel := session.Subscribe()
	defer cancel()

	done := make(chan struct{})
	defer close(done)
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	fmt.Fprintln(out, "Answer with the option number, n = next, p = previous, q = quit.")
	printQuestion(out, session.Snapshot())

	for session.Phase() == domain.PhaseInProgress {
		select {
		case <-ctx.Done():
			service.Abandon(ctx, opts.userID, session.ID())
			return ctx.Err()
		case snap := <-updates:
			if snap.Reason == domain.CompletionTimeout {
				fmt.Fprintln(out, "Time is up.")
			}
		case line, ok := <-lines:
			if !ok {
				service.Abandon(ctx, opts.userID, session.ID())
				return errInputClosed
			}
			if quit := handleLine(out, session, strings.TrimSpace(line)); quit {
				service.Abandon(ctx, opts.userID, session.ID())
				fmt.Fprintln(out, "Attempt abandoned.")
				return nil
			}
		}
	}

	printSummary(out, session.Result())

	who := domain.Participant{UserID: opts.userID, UserName: opts.userName}
	for {
		_, err := service.Submit(ctx, opts.userID, who)
		if err == nil {
			fmt.Fprintln(out, "Result submitted.")
			return nil
		}
		if !errors.Is(err, domain.ErrSubmissionFailed) {
			return err
		}
		fmt.Fprintf(out, "Submitting failed: %v\nRetry? [y/N] ", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok || !strings.EqualFold(strings.TrimSpace(line), "y") {
				return err
			}
		}
	}
}

// handleLine applies one command to the session and reports whether the user quit.
func handleLine(out io.Writer, session *app.Session, line string) bool {
	switch line {
	case "":
		return false
	case "q":
		return true
	case "n":
		if err := session.Next(); err != nil {
			fmt.Fprintf(out, "! %v\n", err)
			return false
		}
		if session.Phase() == domain.PhaseInProgress {
			printQuestion(out, session.Snapshot())
		}
		return false
	case "p":
		if err := session.Previous(); err != nil {
			fmt.Fprintf(out, "! %v\n", err)
			return false
		}
		printQuestion(out, session.Snapshot())
		return false
	}

	choice, err := strconv.Atoi(line)
	if err != nil {
		fmt.Fprintln(out, "! enter an option number, n, p or q")
		return false
	}
	answer, err := session.Answer(choice - 1)
	if err != nil {
		fmt.Fprintf(out, "! %v\n", err)
		return false
	}
	if answer.IsCorrect {
		fmt.Fprintf(out, "Correct! +%d\n", answer.PointsAwarded)
	} else {
		fmt.Fprintf(out, "Incorrect. The answer is: %s\n", answer.CorrectAnswerText)
	}
	if answer.Explanation != "" {
		fmt.Fprintln(out, answer.Explanation)
	}
	return false
}

func printQuestion(out io.Writer, snap app.Snapshot) {
	fmt.Fprintf(out, "\nQuestion %d/%d  [%02d:%02d left, score %d]\n",
		snap.CurrentIndex+1, snap.TotalQuestions,
		snap.RemainingSeconds/60, snap.RemainingSeconds%60, snap.Score)
	fmt.Fprintln(out, snap.Question.Question)
	for i, opt := range snap.Question.Options {
		marker := " "
		if snap.Answer != nil && snap.Answer.SelectedOptionIndex == i {
			marker = "*"
		}
		fmt.Fprintf(out, " %s%d) %s\n", marker, i+1, opt)
	}
}

func printSummary(out io.Writer, res domain.Result) {
	fmt.Fprintf(out, "\nScore: %d/%d (%d%%) - %s\n", res.Score, res.MaxScore, res.Percentage, res.Remark)
	fmt.Fprintf(out, "Answered %d of %d questions, %d correct, in %ds (%s)\n",
		res.Answered, res.TotalQuestions, res.Correct, res.TimeTaken, res.Reason)
}
