package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/cardscan/constants"
	"github.com/joseph-ayodele/cardscan/internal/common"
	"github.com/joseph-ayodele/cardscan/internal/entity"
	"github.com/joseph-ayodele/cardscan/internal/llm"
	"github.com/joseph-ayodele/cardscan/internal/output"
)

// Renderer turns a source document into ordered page images.
type Renderer interface {
	Render(ctx context.Context, path string) ([]entity.PageImage, error)
}

// Orienter rotates a page upright and reports the applied angle.
type Orienter interface {
	Correct(ctx context.Context, page entity.PageImage) (entity.PageImage, int, error)
}

type Assembler interface {
	Assemble(fields llm.ContactFields, imagePath string) (entity.ContactRecord, error)
}

type Serializer interface {
	Serialize(rec entity.ContactRecord) ([]byte, error)
}

// Observer receives progress for terminal output. Calls happen on the
// processing goroutine.
type Observer interface {
	RunStarted(pages int)
	PageStage(index int, stage constants.PageStage)
	RunFinished(written int, err error)
}

// Options control where a run writes and what it does with an existing file.
type Options struct {
	OutputDir string
	Policy    output.OverwritePolicy
	Confirm   output.Confirm
}

// Summary describes a finished run.
type Summary struct {
	RunID      string
	Pages      int
	Written    int
	OutputPath string
}

// Processor coordinates render, orientation, extraction and vCard output.
type Processor struct {
	Logger     *slog.Logger
	Renderer   Renderer
	Orienter   Orienter
	Extractor  llm.FieldExtractor
	Assembler  Assembler
	Serializer Serializer
	Observer   Observer
}

func NewProcessor(logger *slog.Logger, r Renderer, o Orienter, x llm.FieldExtractor, a Assembler, s Serializer, obs Observer) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if obs == nil {
		obs = nopObserver{}
	}
	return &Processor{
		Logger:     logger,
		Renderer:   r,
		Orienter:   o,
		Extractor:  x,
		Assembler:  a,
		Serializer: s,
		Observer:   obs,
	}
}

// Process converts every page of srcPath into one vCard block appended to
// the output file. Pages run in order; the first failing page aborts the run
// and blocks already appended stay on disk.
func (p *Processor) Process(ctx context.Context, srcPath string, opts Options) (sum Summary, err error) {
	sum.RunID = uuid.NewString()
	ctx = common.WithRunID(ctx, sum.RunID)
	log := p.Logger.With("run_id", sum.RunID)
	start := time.Now()

	defer func() { p.Observer.RunFinished(sum.Written, err) }()

	// 1) render everything before the output file is touched
	pages, err := p.Renderer.Render(ctx, srcPath)
	if err != nil {
		log.Error("pipeline.render.failed", "path", srcPath, "err", err)
		return sum, err
	}
	sum.Pages = len(pages)
	log.Info("pipeline.render.ok", "path", srcPath, "pages", len(pages))
	p.Observer.RunStarted(len(pages))

	// 2) prepare output
	w, err := output.Open(opts.OutputDir, opts.Policy, opts.Confirm, log)
	if err != nil {
		return sum, err
	}
	sum.OutputPath = w.Path()
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	// 3) pages, strictly in order
	for _, page := range pages {
		if err := p.processPage(common.WithPageIndex(ctx, page.Index), page, opts.OutputDir, w, log); err != nil {
			p.Observer.PageStage(page.Index, constants.PageStageFailed)
			log.Error("pipeline.page.failed", "page", page.Index, "err", err)
			return sum, fmt.Errorf("page %d: %w", page.Index, err)
		}
		sum.Written++
	}

	log.Info("pipeline.run.ok",
		"pages", sum.Pages,
		"written", sum.Written,
		"output", sum.OutputPath,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return sum, nil
}

func (p *Processor) processPage(ctx context.Context, page entity.PageImage, dir string, w *output.Writer, log *slog.Logger) error {
	pageStart := time.Now()
	log = log.With("page", page.Index)
	log.Info("pipeline.page.start")
	p.Observer.PageStage(page.Index, constants.PageStageRendered)

	upright, angle, err := p.Orienter.Correct(ctx, page)
	if err != nil {
		return err
	}
	p.Observer.PageStage(page.Index, constants.PageStageOriented)

	tmp, err := output.SaveTempImage(dir, page.Index, upright.Image)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := tmp.Remove(); rerr != nil {
			log.Warn("pipeline.temp.remove_failed", "path", tmp.Path(), "err", rerr)
		}
	}()

	img, err := tmp.Bytes()
	if err != nil {
		return err
	}
	fields, _, err := p.Extractor.ExtractFields(ctx, llm.ExtractRequest{
		Image:     img,
		MIMEType:  llm.DetectMIME(img),
		PageIndex: page.Index,
	})
	if err != nil {
		return err
	}
	p.Observer.PageStage(page.Index, constants.PageStageExtracted)

	rec, err := p.Assembler.Assemble(fields, tmp.Path())
	if err != nil {
		return err
	}
	block, err := p.Serializer.Serialize(rec)
	if err != nil {
		return common.IOError("serialize contact", err)
	}
	if err := w.Append(block); err != nil {
		return err
	}
	p.Observer.PageStage(page.Index, constants.PageStageWritten)

	log.Info("pipeline.page.ok",
		"angle", angle,
		"name", rec.Name,
		"elapsed_ms", time.Since(pageStart).Milliseconds(),
	)
	return nil
}

type nopObserver struct{}

func (nopObserver) RunStarted(int)                     {}
func (nopObserver) PageStage(int, constants.PageStage) {}
func (nopObserver) RunFinished(int, error)             {}
