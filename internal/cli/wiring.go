package cli

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"quiz-attempt-service/internal/app"
	"quiz-attempt-service/internal/config"
	"quiz-attempt-service/internal/domain"
	"quiz-attempt-service/internal/infra/memory"
	pgloader "quiz-attempt-service/internal/infra/postgres"
	redisstore "quiz-attempt-service/internal/infra/redis"
	"quiz-attempt-service/internal/infra/resultsapi"
)

// buildService wires the attempt service from config: Redis and Postgres when
// configured, in-memory adapters otherwise. The returned func releases clients.
func buildService(ctx context.Context, cfg config.Config) (*app.AttemptService, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = redisClient.Close() })
	}

	var loader memory.QuestionSetLoader = memory.NewStaticQuestionSetLoader(sampleQuestionSets())
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, pool.Close)
		loader = pgloader.NewQuestionSetLoader(pool)
	case cfg.Catalog.File != "":
		static, err := memory.LoadStaticQuestionSets(cfg.Catalog.File)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		loader = static
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	attemptTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)
	selectionTTL := config.TTLDuration(cfg.Redis.SelectionTTL, 24*time.Hour)

	var catalog app.QuestionSetRepository
	var selections app.SelectionStore
	var attempts app.AttemptRepository
	if redisClient != nil {
		catalog = redisstore.NewQuestionSetRepository(redisClient, loader, catalogTTL)
		selections = redisstore.NewSelectionStore(redisClient, selectionTTL)
		attempts = redisstore.NewAttemptStore(redisClient, attemptTTL)
	} else {
		catalog = memory.NewQuestionSetRepository(loader, catalogTTL)
		selections = memory.NewSelectionStore()
		attempts = memory.NewAttemptStore()
	}

	var results app.ResultsAPI = memory.NewResultLog()
	if cfg.Results.BaseURL != "" {
		results = resultsapi.New(resultsapi.Config{
			BaseURL: cfg.Results.BaseURL,
			Token:   cfg.Results.Token,
			Timeout: config.TTLDuration(cfg.Results.Timeout, 10*time.Second),
		})
	}

	timeLimit := config.TTLDuration(cfg.Quiz.TimeLimit, app.DefaultTimeLimit*time.Second)
	service := app.NewAttemptService(catalog, selections, attempts, results,
		app.WithTimeLimit(int(timeLimit/time.Second)),
	)
	return service, cleanup, nil
}

// sampleQuestionSets provides demo content when no catalog is configured.
func sampleQuestionSets() map[string]domain.QuestionSet {
	return map[string]domain.QuestionSet{
		"intro-general": {
			ID:          "intro-general",
			Type:        domain.SetTypeGeneral,
			Title:       "Getting started",
			Description: "A short warm-up quiz.",
			CourseID:    "course-intro",
			CourseName:  "Introduction",
			Questions: []domain.RawQuestion{
				{
					ID:          "q1",
					Question:    "What is 2 + 2?",
					Options:     []string{"3", "4", "5"},
					Key:         domain.ByIndex(1),
					Explanation: "Two pairs make four.",
				},
				{
					ID:       "q2",
					Question: "Which planet is known as the red planet?",
					Options:  []string{"Venus", "Mars", "Jupiter"},
					Key:      domain.ByText("Mars"),
				},
			},
		},
	}
}
