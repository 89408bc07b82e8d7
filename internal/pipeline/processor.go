package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"jlcut/internal/config"
	"jlcut/internal/cuts"
	"jlcut/internal/drp"
	"jlcut/internal/history"
	"jlcut/internal/logging"
	"jlcut/internal/timeline"
)

// Recorder persists the outcome of a run. history.Store satisfies it; a nil
// Recorder disables persistence.
type Recorder interface {
	Record(ctx context.Context, run history.Run) (*history.Run, error)
}

// Request describes one archive-processing run.
type Request struct {
	ArchivePath string
	// SourceName overrides the display name recorded for the run. Defaults
	// to the base name of ArchivePath.
	SourceName string
	Kind       cuts.Kind
	// Offset is the number of frames to move audio across each boundary.
	// Zero selects the configured default.
	Offset int
	// MaxGap overrides the boundary gap window when positive.
	MaxGap int
	DryRun bool
}

// TimelineReport summarizes one sequence document inside the archive.
type TimelineReport struct {
	Document   string   `json:"document"`
	VideoClips int      `json:"video_clips"`
	AudioClips int      `json:"audio_clips"`
	Pairs      int      `json:"pairs"`
	Boundaries int      `json:"boundaries"`
	Applied    int      `json:"applied"`
	Failed     int      `json:"failed"`
	Messages   []string `json:"messages,omitempty"`
}

// Report is the aggregate outcome of a run.
type Report struct {
	RunID      string           `json:"run_id"`
	Source     string           `json:"source"`
	Kind       cuts.Kind        `json:"cut_kind"`
	Offset     int              `json:"offset"`
	DryRun     bool             `json:"dry_run"`
	Timelines  []TimelineReport `json:"timelines"`
	Boundaries int              `json:"boundaries"`
	Applied    int              `json:"applied"`
	Failed     int              `json:"failed"`
	Status     string           `json:"status"`
	OutputName string           `json:"output_name,omitempty"`

	// Output holds the rewritten archive when cuts were applied and the run
	// was not a dry run. Nil otherwise.
	Output []byte `json:"-"`
}

// Processor runs the unpack, cut, and repack stages over a project archive.
type Processor struct {
	cfg      *config.Config
	logger   *slog.Logger
	recorder Recorder
}

// New builds a processor. recorder may be nil.
func New(cfg *config.Config, logger *slog.Logger, recorder Recorder) *Processor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Processor{
		cfg:      cfg,
		logger:   logging.WithComponent(logger, "pipeline"),
		recorder: recorder,
	}
}

// Run processes the archive named by req and returns the aggregate report.
// The source archive on disk is never modified.
func (p *Processor) Run(ctx context.Context, req Request) (*Report, error) {
	req, err := p.normalizeRequest(req)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(req.ArchivePath)
	if err != nil {
		return nil, Wrap(ErrArchive, "read archive", req.ArchivePath, err)
	}
	if err := drp.Validate(data, p.cfg.Limits.MaxExtractedBytes); err != nil {
		return nil, Wrap(ErrArchive, "validate archive", req.SourceName, err)
	}

	runID := uuid.NewString()
	stagingDir := filepath.Join(p.cfg.Paths.StagingDir, runID)
	if err := drp.UnpackBytes(data, stagingDir, p.cfg.Limits.MaxExtractedBytes); err != nil {
		return nil, Wrap(ErrArchive, "unpack archive", req.SourceName, err)
	}
	defer os.RemoveAll(stagingDir)

	docPaths, err := timeline.Locate(stagingDir, p.logger)
	if err != nil {
		return nil, Wrap(ErrArchive, "locate timelines", req.SourceName, err)
	}

	report := &Report{
		RunID:  runID,
		Source: req.SourceName,
		Kind:   req.Kind,
		Offset: req.Offset,
		DryRun: req.DryRun,
	}
	rewritten := make(map[string][]byte)
	for _, docPath := range docPaths {
		tl, ok, err := p.processTimeline(docPath, req)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		report.Timelines = append(report.Timelines, tl.report)
		report.Boundaries += tl.report.Boundaries
		report.Applied += tl.report.Applied
		report.Failed += tl.report.Failed
		if tl.rewritten != nil {
			member, err := memberName(stagingDir, docPath)
			if err != nil {
				return nil, Wrap(ErrArchive, "resolve member", docPath, err)
			}
			rewritten[member] = tl.rewritten
		}
	}

	report.Status = history.StatusFor(req.DryRun, report.Boundaries, report.Applied)
	if len(rewritten) > 0 {
		output, err := drp.RepackBytes(data, rewritten)
		if err != nil {
			return nil, Wrap(ErrArchive, "repack archive", req.SourceName, err)
		}
		report.Output = output
		report.OutputName = drp.OutputName(req.SourceName, string(req.Kind))
	}

	p.logger.Info("run complete",
		logging.String("run_id", report.RunID),
		logging.String("source", report.Source),
		logging.String("status", report.Status),
		logging.Int("timelines", len(report.Timelines)),
		logging.Int("boundaries", report.Boundaries),
		logging.Int("applied", report.Applied),
		logging.Int("failed", report.Failed))

	p.record(ctx, report)
	return report, nil
}

func (p *Processor) normalizeRequest(req Request) (Request, error) {
	if req.ArchivePath == "" {
		return req, Wrap(ErrValidation, "request", "archive path is required", nil)
	}
	if req.SourceName == "" {
		req.SourceName = filepath.Base(req.ArchivePath)
	}
	if req.Kind != cuts.KindJ && req.Kind != cuts.KindL {
		return req, Wrap(ErrValidation, "request", fmt.Sprintf("unknown cut kind %q", string(req.Kind)), nil)
	}
	if req.Offset == 0 {
		req.Offset = p.cfg.Cuts.DefaultOffset
	}
	if req.Offset < 1 || req.Offset > p.cfg.Limits.MaxOffset {
		return req, Wrap(ErrValidation, "request",
			fmt.Sprintf("offset %d outside range 1-%d", req.Offset, p.cfg.Limits.MaxOffset), nil)
	}
	if req.MaxGap <= 0 {
		req.MaxGap = p.cfg.Cuts.MaxGap
	}
	return req, nil
}

type timelineResult struct {
	report    TimelineReport
	rewritten []byte
}

func (p *Processor) processTimeline(docPath string, req Request) (timelineResult, bool, error) {
	doc, err := timeline.LoadFile(docPath)
	if err != nil {
		p.logger.Warn("skipping malformed timeline",
			logging.String("path", docPath),
			logging.Error(err))
		return timelineResult{}, false, nil
	}

	docName := filepath.Base(docPath)
	video := doc.VideoClips()
	audio := doc.AudioClips()
	pairs := cuts.MatchPairs(video, audio)
	boundaries := cuts.DetectBoundaries(pairs, req.MaxGap)
	batch := cuts.ApplyAll(boundaries, req.Offset, req.Kind, req.DryRun)

	result := timelineResult{report: TimelineReport{
		Document:   docName,
		VideoClips: len(video),
		AudioClips: len(audio),
		Pairs:      len(pairs),
		Boundaries: len(boundaries),
		Applied:    batch.Applied,
		Failed:     batch.Failed,
		Messages:   batch.Messages,
	}}
	p.logger.Info("timeline processed",
		logging.String("document", docName),
		logging.Int("pairs", len(pairs)),
		logging.Int("boundaries", len(boundaries)),
		logging.Int("applied", batch.Applied),
		logging.Int("failed", batch.Failed))

	if batch.Applied > 0 && !req.DryRun {
		data, err := doc.WriteBytes()
		if err != nil {
			return timelineResult{}, false, Wrap(ErrArchive, "serialize timeline", docName, err)
		}
		result.rewritten = data
	}
	return result, true, nil
}

func (p *Processor) record(ctx context.Context, report *Report) {
	if p.recorder == nil {
		return
	}
	_, err := p.recorder.Record(ctx, history.Run{
		ID:         report.RunID,
		Source:     report.Source,
		CutKind:    string(report.Kind),
		Offset:     report.Offset,
		DryRun:     report.DryRun,
		Timelines:  len(report.Timelines),
		Boundaries: report.Boundaries,
		Applied:    report.Applied,
		Failed:     report.Failed,
		Status:     report.Status,
	})
	if err != nil {
		p.logger.Warn("history record failed",
			logging.String("run_id", report.RunID),
			logging.Error(err))
	}
}

// memberName maps an unpacked file path back to its archive member name.
func memberName(stagingDir, path string) (string, error) {
	rel, err := filepath.Rel(stagingDir, path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
