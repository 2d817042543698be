package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/ds124wfegd/filterbench/internal/database"
	"github.com/ds124wfegd/filterbench/internal/entity"
	"github.com/ds124wfegd/filterbench/internal/pkg/debounce"
	"github.com/ds124wfegd/filterbench/internal/pkg/processor"
	"github.com/ds124wfegd/filterbench/internal/pkg/report"
	"github.com/ds124wfegd/filterbench/internal/pkg/storage"
)

// Upload is one file of a batch intake. Open is called at most once.
type Upload struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// WorkspaceService is the single entry point for every user-facing action:
// image lifecycle, per-image and global pipeline edits, exports.
type WorkspaceService interface {
	AddImage(name string, data []byte) (string, error)
	AddImages(ctx context.Context, uploads []Upload) ([]string, []error)
	RemoveImage(id string) error
	ClearWorkspace() int
	GetImage(id string) (*entity.LoadedImage, error)
	ListImages() []*entity.LoadedImage
	Controls() entity.ControlState
	ExportImage(id, format string) ([]byte, string, string, error)

	ToggleOperation(id string, kind entity.Kind, active bool) ([]entity.Operation, error)
	SetParameter(id string, kind entity.Kind, raw any) error
	ClearFilters(id string) error
	ToggleGlobal(kind entity.Kind, active bool) (int, error)
	SetGlobalParameter(kind entity.Kind, raw any) (int, error)
	ClearAllFilters() int

	BuildReport(title string) (*report.Document, error)
	ExportReport(ctx context.Context, title string) (*entity.ReportResponse, error)
	OpenReport(id string) (io.ReadCloser, error)

	// Flush runs every scheduled evaluation now and waits for them.
	Flush()
	Close()
}

// ReportRenderer writes a laid out document as a file.
type ReportRenderer interface {
	Render(ctx context.Context, doc *report.Document, w io.Writer) error
}

// Dependencies groups the collaborators of a workspace. Events may be nil.
type Dependencies struct {
	Store     database.PipelineRepository
	Evaluator processor.ImageEvaluator
	Renderer  ReportRenderer
	Storage   storage.FileStorage
	Events    processor.EventPublisher

	Debounce      time.Duration
	EvalTimeout   time.Duration
	Layout        report.Layout
	DefaultTitle  string
	IntakeWorkers int
}

type workspaceService struct {
	store     database.PipelineRepository
	evaluator processor.ImageEvaluator
	renderer  ReportRenderer
	storage   storage.FileStorage
	events    processor.EventPublisher
	scheduler *debounce.Debouncer

	evalTimeout   time.Duration
	layout        report.Layout
	defaultTitle  string
	intakeWorkers int

	mu           sync.Mutex
	lastReportID string
}

func NewWorkspaceService(deps Dependencies) WorkspaceService {
	if deps.EvalTimeout <= 0 {
		deps.EvalTimeout = 30 * time.Second
	}
	if deps.IntakeWorkers <= 0 {
		deps.IntakeWorkers = 4
	}
	if deps.Layout == (report.Layout{}) {
		deps.Layout = report.DefaultLayout()
	}
	return &workspaceService{
		store:         deps.Store,
		evaluator:     deps.Evaluator,
		renderer:      deps.Renderer,
		storage:       deps.Storage,
		events:        deps.Events,
		scheduler:     debounce.New(deps.Debounce),
		evalTimeout:   deps.EvalTimeout,
		layout:        deps.Layout,
		defaultTitle:  deps.DefaultTitle,
		intakeWorkers: deps.IntakeWorkers,
	}
}

func (s *workspaceService) Flush() {
	s.scheduler.Flush()
}

func (s *workspaceService) Close() {
	s.scheduler.Stop()
}
