package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks RecordStore,ProgressStore,Notifier

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"lexscreen/internal/screening/intake"
	"lexscreen/internal/screening/metrics"
	"lexscreen/internal/screening/models"
	"lexscreen/internal/screening/rules"
	"lexscreen/internal/screening/wizard"
	id "lexscreen/pkg/domain"
	dErrors "lexscreen/pkg/domain-errors"
	"lexscreen/pkg/platform/sentinel"
	"lexscreen/pkg/requestcontext"
)

// RecordStore persists finished screenings. Save is idempotent on the
// screening id: a second save returns the stored record and created=false.
type RecordStore interface {
	Save(ctx context.Context, record *models.Record) (stored *models.Record, created bool, err error)
	FindByID(ctx context.Context, recordID id.RecordID) (*models.Record, error)
	FindByScreeningID(ctx context.Context, screeningID id.ScreeningID) (*models.Record, error)
	List(ctx context.Context, filter models.RecordFilter) ([]*models.Record, error)
}

// ProgressStore autosaves in-flight runs.
type ProgressStore interface {
	Save(ctx context.Context, progress *models.Progress) error
	Find(ctx context.Context, screeningID id.ScreeningID) (*models.Progress, error)
	Delete(ctx context.Context, screeningID id.ScreeningID) error
}

// Notifier tells staff about a new record. Implementations must not block.
type Notifier interface {
	Notify(ctx context.Context, record *models.Record) error
}

// Service orchestrates the wizard, persistence and notification.
type Service struct {
	wizard     *wizard.Wizard
	classifier *rules.Classifier
	records    RecordStore
	progress   ProgressStore
	notifier   Notifier
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New constructs a Service. The classifier, record store and progress store
// are required.
func New(classifier *rules.Classifier, records RecordStore, progress ProgressStore, opts ...Option) (*Service, error) {
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}
	if records == nil {
		return nil, errors.New("record store is required")
	}
	if progress == nil {
		return nil, errors.New("progress store is required")
	}
	s := &Service{
		classifier: classifier,
		records:    records,
		progress:   progress,
		logger:     slog.Default(),
		tracer:     otel.Tracer("lexscreen/screening"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.wizard = wizard.New(classifier)
	return s, nil
}

// View is a run together with where it stands.
type View struct {
	Progress *models.Progress
	Position wizard.Position
}

func (s *Service) view(p *models.Progress) (*View, error) {
	pos, err := s.wizard.Current(*p)
	if err != nil {
		return nil, err
	}
	return &View{Progress: p, Position: pos}, nil
}

// Start opens a new run of the variant.
func (s *Service) Start(ctx context.Context, variant intake.Variant) (*View, error) {
	p, err := s.wizard.Start(id.NewScreeningID(), variant)
	if err != nil {
		return nil, err
	}
	if err := s.progress.Save(ctx, p); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save progress")
	}
	s.logInfo(ctx, "screening started", "screening_id", p.ID, "variant", variant)
	return s.view(p)
}

// Get loads a run.
func (s *Service) Get(ctx context.Context, screeningID id.ScreeningID) (*View, error) {
	p, err := s.load(ctx, screeningID)
	if err != nil {
		return nil, err
	}
	return s.view(p)
}

func (s *Service) load(ctx context.Context, screeningID id.ScreeningID) (*models.Progress, error) {
	p, err := s.progress.Find(ctx, screeningID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) || errors.Is(err, sentinel.ErrExpired) {
			return nil, dErrors.New(dErrors.CodeNotFound, "screening not found or expired")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load progress")
	}
	return p, nil
}

type transition func(models.Progress, map[intake.FieldKey]intake.Answer) (models.Progress, error)

func (s *Service) step(ctx context.Context, screeningID id.ScreeningID, direction string,
	answers map[intake.FieldKey]intake.Answer, move transition) (*View, error) {
	p, err := s.load(ctx, screeningID)
	if err != nil {
		return nil, err
	}
	next, err := move(*p, answers)
	if err != nil {
		var verr *wizard.ValidationError
		if errors.As(err, &verr) {
			s.incrementValidationFailure(p.Variant, verr.Step)
		}
		return nil, err
	}
	if err := s.progress.Save(ctx, &next); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save progress")
	}
	s.incrementStep(p.Variant, direction)
	return s.view(&next)
}

// Next answers the current step and advances.
func (s *Service) Next(ctx context.Context, screeningID id.ScreeningID, answers map[intake.FieldKey]intake.Answer) (*View, error) {
	return s.step(ctx, screeningID, "next", answers, s.wizard.Next)
}

// Back stores any answers and returns to the previous step.
func (s *Service) Back(ctx context.Context, screeningID id.ScreeningID, answers map[intake.FieldKey]intake.Answer) (*View, error) {
	return s.step(ctx, screeningID, "back", answers, s.wizard.Back)
}

// Submit completes the run and classifies it once.
func (s *Service) Submit(ctx context.Context, screeningID id.ScreeningID, answers map[intake.FieldKey]intake.Answer) (*View, error) {
	ctx, span := s.tracer.Start(ctx, "screening.Submit")
	defer span.End()

	view, err := s.step(ctx, screeningID, "submit", answers, s.wizard.Submit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	sub := view.Progress.Submission
	s.logInfo(ctx, "screening submitted",
		"screening_id", screeningID,
		"variant", sub.Variant,
		"risk", sub.Classification.Risk,
		"probability", sub.Classification.Probability,
		"rule_version", sub.Classification.RuleVersion,
	)
	return view, nil
}

// Classify evaluates a fact set without a run, masking fields of steps that
// do not apply.
func (s *Service) Classify(_ context.Context, facts intake.Facts) (rules.Classification, error) {
	return s.wizard.Classify(facts)
}

// Rules describes a variant's rule table.
func (s *Service) Rules(_ context.Context, variant intake.Variant) (rules.TableInfo, error) {
	info, err := s.classifier.Describe(variant)
	if err != nil {
		return rules.TableInfo{}, dErrors.New(dErrors.CodeInvalidInput, err.Error())
	}
	return info, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		args = append(args, "request_id", requestID)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}

func (s *Service) logWarn(ctx context.Context, msg string, args ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		args = append(args, "request_id", requestID)
	}
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, args...)
	}
}

func (s *Service) incrementStep(v intake.Variant, direction string) {
	if s.metrics != nil {
		s.metrics.IncrementStep(string(v), direction)
	}
}

func (s *Service) incrementValidationFailure(v intake.Variant, step models.StepID) {
	if s.metrics != nil {
		s.metrics.IncrementValidationFailure(string(v), string(step))
	}
}
