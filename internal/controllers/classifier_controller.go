package controllers

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/FaresAlnamla/Email-Spam-Detection-System/internal/middlewares"
	"github.com/FaresAlnamla/Email-Spam-Detection-System/pkg/bundle"
	"github.com/FaresAlnamla/Email-Spam-Detection-System/pkg/domain"
	"github.com/FaresAlnamla/Email-Spam-Detection-System/pkg/ingest"
	"github.com/FaresAlnamla/Email-Spam-Detection-System/pkg/scoring"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ClassifierController handles the classification endpoints. The model
// loads in the background at startup; until SetBundle lands, every
// scoring route answers 503 so clients can tell "try again later" apart
// from input errors.
type ClassifierController struct {
	registry *domain.ProfileRegistry
	resolver *domain.ThresholdResolver
	maxBatch int

	model atomic.Pointer[loadedModel]
}

type loadedModel struct {
	engine   *scoring.Engine
	batch    *scoring.BatchScorer
	ingestor *ingest.Ingestor
}

type ClassifierControllerDependencies struct {
	Registry *domain.ProfileRegistry
	Resolver *domain.ThresholdResolver
	MaxBatch int
}

func NewClassifierController(deps ClassifierControllerDependencies) *ClassifierController {
	return &ClassifierController{
		registry: deps.Registry,
		resolver: deps.Resolver,
		maxBatch: deps.MaxBatch,
	}
}

// SetBundle publishes the loaded model. Called once when the background
// load completes; all scoring routes observe it atomically.
func (c *ClassifierController) SetBundle(b *bundle.Bundle) {
	engine := scoring.NewEngine(scoring.EngineDependencies{Bundle: b})
	c.model.Store(&loadedModel{
		engine: engine,
		batch: scoring.NewBatchScorer(scoring.BatchScorerDependencies{
			Engine:   engine,
			MaxBatch: c.maxBatch,
		}),
		ingestor: ingest.NewIngestor(ingest.IngestorDependencies{Engine: engine}),
	})
}

type PredictRequest struct {
	Text string `json:"text"`
}

type PredictResponse struct {
	Text      string   `json:"text"`
	Pred      string   `json:"pred"`
	ProbaSpam *float64 `json:"proba_spam"`
	RequestID string   `json:"request_id"`
}

// Predict classifies a single message, honoring an optional ?profile=
// threshold override.
func (c *ClassifierController) Predict(ctx fiber.Ctx) error {
	model := c.model.Load()
	if model == nil {
		return statusError(domain.ErrModelNotReady)
	}

	var req PredictRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	threshold := c.resolver.EffectiveThreshold(ctx.Query("profile"))

	item, err := model.engine.ScoreOne(req.Text, threshold)
	if err != nil {
		return statusError(err)
	}

	return ctx.JSON(PredictResponse{
		Text:      item.Text,
		Pred:      item.Pred,
		ProbaSpam: item.ProbaSpam,
		RequestID: middlewares.RequestID(ctx),
	})
}

type BatchRequest struct {
	Texts []string `json:"texts"`
}

type BatchResponse struct {
	Size      int                 `json:"size"`
	Items     []domain.ScoredItem `json:"items"`
	RequestID string              `json:"request_id"`
}

// Batch classifies a list of messages in one vectorized pass.
func (c *ClassifierController) Batch(ctx fiber.Ctx) error {
	model := c.model.Load()
	if model == nil {
		return statusError(domain.ErrModelNotReady)
	}

	var req BatchRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	threshold := c.resolver.EffectiveThreshold(ctx.Query("profile"))

	items, err := model.batch.ScoreBatch(req.Texts, threshold)
	if err != nil {
		if errors.Is(err, domain.ErrBatchTooLarge) {
			return fiber.NewError(fiber.StatusRequestEntityTooLarge, fmt.Sprintf("Batch too large (>%d)", c.maxBatch))
		}
		return statusError(err)
	}

	return ctx.JSON(BatchResponse{
		Size:      len(items),
		Items:     items,
		RequestID: middlewares.RequestID(ctx),
	})
}

// FilePredict scores an uploaded CSV/XLSX/TXT file and streams back a
// CSV attachment named prediction_<stem>.csv. Input problems are
// rejected before the first byte of output; once streaming starts, a
// client disconnect just truncates the attachment at a chunk boundary.
func (c *ClassifierController) FilePredict(ctx fiber.Ctx) error {
	model := c.model.Load()
	if model == nil {
		return statusError(domain.ErrModelNotReady)
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Uploaded file is required")
	}
	if fileHeader.Filename == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Uploaded file must have a name")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Could not read file")
	}
	content, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Could not read file")
	}

	job, err := model.ingestor.Prepare(ingest.IngestParams{
		Filename:  fileHeader.Filename,
		Content:   content,
		Threshold: c.resolver.EffectiveThreshold(ctx.Query("profile")),
	})
	if err != nil {
		return statusError(err)
	}

	jobID := uuid.NewString()
	log.Info().
		Str("job_id", jobID).
		Str("filename", fileHeader.Filename).
		Str("request_id", middlewares.RequestID(ctx)).
		Msg("Scoring uploaded file")

	outName := ingest.OutputName(fileHeader.Filename)
	ctx.Set(fiber.HeaderContentType, "text/csv")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", outName))

	reqCtx := ctx.RequestCtx()
	pr, pw := io.Pipe()
	go func() {
		err := job.Run(reqCtx, pw)
		if err != nil {
			log.Error().Err(err).Str("job_id", jobID).Msg("File scoring aborted")
		}
		pw.CloseWithError(err)
	}()

	return ctx.SendStream(pr)
}

// Health reports readiness, model provenance and the active config.
func (c *ClassifierController) Health(ctx fiber.Ctx) error {
	var (
		fileInfo  any = struct{}{}
		modelMeta any = struct{}{}
	)

	model := c.model.Load()
	ok := model != nil
	if ok {
		b := model.engine.Bundle()
		fileInfo = b.FileInfo
		modelMeta = fiber.Map{
			"classifier":  b.Classifier.Name(),
			"bundle_meta": b.Meta,
		}
	}

	return ctx.JSON(fiber.Map{
		"ok":           ok,
		"model_loaded": ok,
		"model_file":   fileInfo,
		"model_meta":   modelMeta,
		"config": fiber.Map{
			"system_profile": c.registry.Default().Key,
			"spam_threshold": c.resolver.DefaultThreshold(),
			"max_batch":      c.maxBatch,
		},
	})
}

// Profiles lists the sensitivity catalog for UIs.
func (c *ClassifierController) Profiles(ctx fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"system_profile":    c.registry.Default().Key,
		"default_threshold": c.resolver.DefaultThreshold(),
		"profiles":          c.registry.Profiles(),
	})
}

// statusError maps the domain error taxonomy onto HTTP statuses.
func statusError(err error) *fiber.Error {
	switch {
	case errors.Is(err, domain.ErrModelNotReady):
		return fiber.NewError(fiber.StatusServiceUnavailable, "Model not loaded")
	case errors.Is(err, domain.ErrEmptyText):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Empty 'text'")
	case errors.Is(err, domain.ErrEmptyBatch):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "No texts provided")
	case errors.Is(err, domain.ErrBatchTooLarge):
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "Batch too large")
	case errors.Is(err, domain.ErrMissingTextColumn):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return fiber.NewError(fiber.StatusUnsupportedMediaType, err.Error())
	default:
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Could not read file: %v", err))
	}
}
