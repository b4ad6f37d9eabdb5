package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/config"
	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/infra/faceapi"
	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/infra/genqueue"
	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/infra/httpclient"
	s3infra "github.com/eugene-guo-moe/interactive-display1-sub000/internal/infra/s3"
	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/jobs/cleanup"
	pgrepo "github.com/eugene-guo-moe/interactive-display1-sub000/internal/repo/postgres"
	redrepo "github.com/eugene-guo-moe/interactive-display1-sub000/internal/repo/redis"
	assetssvc "github.com/eugene-guo-moe/interactive-display1-sub000/internal/services/assets"
	detectsvc "github.com/eugene-guo-moe/interactive-display1-sub000/internal/services/detect"
	generatesvc "github.com/eugene-guo-moe/interactive-display1-sub000/internal/services/generate"
	promptsvc "github.com/eugene-guo-moe/interactive-display1-sub000/internal/services/prompt"
	ratesvc "github.com/eugene-guo-moe/interactive-display1-sub000/internal/services/rate"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	httpRouter http.Handler

	cleanupJob  *cleanup.Job
	stopCleanup context.CancelFunc
}

// New wires the whole backend. Postgres and S3 outages degrade the app
// instead of preventing startup: auditing goes dark and storage calls fail
// per-request, but health and classification keep working.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, cfg.Security, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	rateRepo := redrepo.NewRateRepo(redisClient)
	rateLimiter := ratesvc.NewLimiter(rateRepo, cfg.Limits.GenerateRequests, cfg.Limits.GenerateWindow)

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	assetStorage := assetssvc.NewS3Storage(s3Client, cfg.S3.Bucket)
	assetService := assetssvc.NewService(assetStorage, cfg.Assets.PublicBaseURL)

	faceClient := faceapi.NewClient(httpclient.New(cfg.Detection.Timeout), cfg.Detection.BaseURL)
	detectService := detectsvc.NewService(faceClient, httpclient.New(cfg.Detection.Timeout), log)

	queueClient := genqueue.NewClient(
		httpclient.New(cfg.Generation.SubmitTimeout),
		httpclient.New(cfg.Generation.FetchTimeout),
		genqueue.Config{
			BaseURL:       cfg.Generation.BaseURL,
			APIKey:        cfg.Generation.APIKey,
			MaxImageBytes: cfg.Generation.MaxImageBytes,
		},
	)

	promptBuilder := promptsvc.NewBuilder(promptsvc.Config{
		SafetySuffix:   cfg.Prompt.SafetySuffix,
		GlassesClause:  cfg.Prompt.GlassesClause,
		NegativePrompt: cfg.Prompt.NegativePrompt,
	})

	var generationRepo *pgrepo.GenerationRepo
	var audit generatesvc.AuditStore
	if pool != nil {
		generationRepo = pgrepo.NewGenerationRepo(pool)
		audit = generationRepo
	}

	generateService := generatesvc.NewService(
		assetService, detectService, promptBuilder, queueClient, audit,
		generatesvc.Config{
			PollInterval:    cfg.Generation.PollInterval,
			MaxPollAttempts: cfg.Generation.MaxPollAttempts,
			ScenePrompts:    cfg.Prompt.ScenePrompts,
		},
		log,
	)

	RegisterRoutes(r, Dependencies{
		GenerateService: generateService,
		DetectService:   detectService,
		AssetService:    assetService,
		RateLimiter:     rateLimiter,
		Logger:          log,
		Config:          cfg,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	cleanupJob := cleanup.New(assetService, cfg.Assets.UploadRetention, cfg.Assets.CleanupInterval, log)
	if generationRepo != nil {
		cleanupJob.AttachStats(generationRepo)
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		httpRouter: r,
		cleanupJob: cleanupJob,
	}, nil
}

func (a *App) Run() error {
	cleanupCtx, cancel := context.WithCancel(context.Background())
	a.stopCleanup = cancel
	go a.cleanupJob.Run(cleanupCtx)

	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if a.stopCleanup != nil {
		a.stopCleanup()
	}
	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
