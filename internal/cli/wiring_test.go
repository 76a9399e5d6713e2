package cli

import (
	"context"
	"testing"

	"quiz-attempt-service/internal/app"
	"quiz-attempt-service/internal/config"
)

func TestBuildServiceTimeLimit(t *testing.T) {
	cases := []struct {
		name      string
		timeLimit string
		want      int
	}{
		{"default budget", "", app.DefaultTimeLimit},
		{"configured budget", "2m", 120},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			cfg := config.Config{}
			cfg.Quiz.TimeLimit = tc.timeLimit

			service, cleanup, err := buildService(ctx, cfg)
			if err != nil {
				t.Fatalf("build service: %v", err)
			}
			defer cleanup()

			if _, err := service.Select(ctx, "u1", "intro-general"); err != nil {
				t.Fatalf("select: %v", err)
			}
			session, err := service.Begin(ctx, "u1")
			if err != nil {
				t.Fatalf("begin: %v", err)
			}
			defer session.Stop()

			res := session.Result()
			if res.MaxScore != app.PointsPerAnswer*res.TotalQuestions || res.MaxScore != 10 {
				t.Fatalf("expected 5 points per question, got max %d", res.MaxScore)
			}
			// the countdown may already have ticked once
			if got := session.Snapshot().RemainingSeconds; got > tc.want || got < tc.want-1 {
				t.Fatalf("expected about %ds remaining, got %d", tc.want, got)
			}
		})
	}
}
