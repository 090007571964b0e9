package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hqzhou/textreflow/internal/extract"
	"github.com/hqzhou/textreflow/internal/reflow"
)

// Worker processes a single conversion job.
type Worker struct {
	log *slog.Logger
}

func NewWorker(log *slog.Logger) *Worker {
	return &Worker{log: log}
}

// Process runs extraction then reflow for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	if job.Canceled() {
		return
	}

	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	job.setCancel(cancel)

	// Phase 1: Extract
	job.SetStatus(StatusExtracting)
	ex, err := extract.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.Fail(err.Error())
		return
	}

	res, err := ex.Extract(jobCtx, bytes.NewReader(job.FileData()), job.Filename, job.SetProgress)
	if err != nil {
		if errors.Is(err, context.Canceled) || job.Canceled() {
			log.Info("job canceled during extraction")
			job.SetStatus(StatusCanceled)
			return
		}
		log.Error("extraction failed", "error", err)
		job.Fail(fmt.Sprintf("extract: %s", err))
		return
	}
	job.SetPages(res.Pages)
	log.Info("extraction complete", "pages", res.Pages, "bytes", len(res.Text))

	// Cancellation is checked between phases; reflow itself runs to
	// completion once started.
	if job.Canceled() {
		log.Info("job canceled before reflow")
		return
	}

	// Phase 2: Reflow
	job.SetStatus(StatusReflowing)
	text := reflow.Reflow(res.Text, job.Options())
	job.SetResult(text)
	log.Info("reflow complete", "bytes", len(text))
}
