// Package generate runs the portrait pipeline: persist the source photo and
// detect face attributes concurrently, build the steered prompt, submit the
// job to the generation queue, poll it to completion and publish the result.
package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/enums"
	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/model"
	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/infra/genqueue"
	"github.com/eugene-guo-moe/interactive-display1-sub000/internal/services/assets"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrGenerationFailed  = errors.New("generation job failed")
	ErrGenerationTimeout = errors.New("generation timed out")
)

type AssetStore interface {
	StoreUpload(ctx context.Context, requestID string, photo []byte) (string, error)
	StoreGenerated(ctx context.Context, category enums.SceneCategory, requestID string, image []byte) (string, error)
	PublicURL(key string) string
}

type Detector interface {
	Detect(ctx context.Context, photo []byte) model.FaceAttributes
}

type PromptBuilder interface {
	Build(scenePrompt string, attrs model.FaceAttributes) (string, string)
}

type Queue interface {
	Submit(ctx context.Context, prompt, negativePrompt string) (string, error)
	Poll(ctx context.Context, jobID string) (genqueue.Job, error)
	FetchImage(ctx context.Context, imageURL string) ([]byte, error)
}

// AuditStore records generation outcomes. Auditing is best-effort; a nil
// store or a failed insert never fails the request.
type AuditStore interface {
	Insert(ctx context.Context, record model.GenerationRecord) error
}

type Config struct {
	PollInterval    time.Duration
	MaxPollAttempts int
	ScenePrompts    map[string]string
}

type Service struct {
	assets   AssetStore
	detector Detector
	prompts  PromptBuilder
	queue    Queue
	audit    AuditStore

	scenePrompts    map[string]string
	pollInterval    time.Duration
	maxPollAttempts int

	log   *zap.Logger
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewService(store AssetStore, detector Detector, prompts PromptBuilder, queue Queue, audit AuditStore, cfg Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		assets:          store,
		detector:        detector,
		prompts:         prompts,
		queue:           queue,
		audit:           audit,
		scenePrompts:    cfg.ScenePrompts,
		pollInterval:    cfg.PollInterval,
		maxPollAttempts: cfg.MaxPollAttempts,
		log:             log,
		now:             time.Now,
		sleep:           sleepCtx,
	}
}

type Result struct {
	RequestID string
	ImageURL  string
}

// Generate runs the full pipeline for one validated photo. scenePrompt may be
// empty, in which case the configured prompt for the category is used.
func (s *Service) Generate(ctx context.Context, category enums.SceneCategory, scenePrompt string, photo []byte) (Result, error) {
	if !category.Valid() || len(photo) == 0 {
		return Result{}, ErrValidation
	}
	if s.assets == nil || s.detector == nil || s.prompts == nil || s.queue == nil {
		return Result{}, fmt.Errorf("generation pipeline is not configured")
	}

	requestID := assets.NewRequestID(s.now())
	log := s.log.With(zap.String("request_id", requestID), zap.String("category", string(category)))

	// The source photo upload and face detection are independent; run them
	// concurrently. An upload failure aborts the request, detection cannot
	// fail by contract.
	var attrs model.FaceAttributes
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if _, err := s.assets.StoreUpload(gctx, requestID, photo); err != nil {
			return fmt.Errorf("store upload: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		attrs = s.detector.Detect(gctx, photo)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	if strings.TrimSpace(scenePrompt) == "" {
		scenePrompt = s.scenePrompts[string(category)]
	}
	promptText, negativePrompt := s.prompts.Build(scenePrompt, attrs)

	jobID, err := s.queue.Submit(ctx, promptText, negativePrompt)
	if err != nil {
		s.recordAudit(ctx, requestID, category, model.GenerationFailed, "")
		return Result{}, fmt.Errorf("submit generation job: %w", err)
	}
	log.Info("generation job submitted", zap.String("job_id", jobID))

	imageURL, err := s.awaitCompletion(ctx, log, jobID)
	if err != nil {
		s.recordAudit(ctx, requestID, category, model.GenerationFailed, "")
		return Result{}, err
	}

	image, err := s.queue.FetchImage(ctx, imageURL)
	if err != nil {
		s.recordAudit(ctx, requestID, category, model.GenerationFailed, "")
		return Result{}, fmt.Errorf("fetch generated image: %w", err)
	}

	key, err := s.assets.StoreGenerated(ctx, category, requestID, image)
	if err != nil {
		s.recordAudit(ctx, requestID, category, model.GenerationFailed, "")
		return Result{}, fmt.Errorf("store generated image: %w", err)
	}

	s.recordAudit(ctx, requestID, category, model.GenerationCompleted, key)
	log.Info("generation completed", zap.String("object_key", key))

	return Result{RequestID: requestID, ImageURL: s.assets.PublicURL(key)}, nil
}

// awaitCompletion polls the job until it completes, fails or the attempt
// budget runs out. Poll transport errors are treated as transient.
func (s *Service) awaitCompletion(ctx context.Context, log *zap.Logger, jobID string) (string, error) {
	for attempt := 1; attempt <= s.maxPollAttempts; attempt++ {
		job, err := s.queue.Poll(ctx, jobID)
		switch {
		case err != nil:
			log.Warn("poll attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		case job.Status == enums.JobStatusCompleted:
			if job.ImageURL == "" {
				return "", fmt.Errorf("%w: completed without an image url", ErrGenerationFailed)
			}
			return job.ImageURL, nil
		case job.Status == enums.JobStatusFailed:
			return "", ErrGenerationFailed
		}

		if attempt == s.maxPollAttempts {
			break
		}
		if err := s.sleep(ctx, s.pollInterval); err != nil {
			return "", err
		}
	}

	return "", ErrGenerationTimeout
}

func (s *Service) recordAudit(ctx context.Context, requestID string, category enums.SceneCategory, status model.GenerationStatus, objectKey string) {
	if s.audit == nil {
		return
	}

	record := model.GenerationRecord{
		RequestID: requestID,
		Category:  category,
		Status:    status,
		ObjectKey: objectKey,
		CreatedAt: s.now().UTC(),
	}
	if err := s.audit.Insert(ctx, record); err != nil {
		s.log.Warn("audit insert failed", zap.String("request_id", requestID), zap.Error(err))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
