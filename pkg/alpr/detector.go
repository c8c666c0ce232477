package alpr

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrDetectorBusy is returned when the request queue is full. Callers should
// drop the frame and retry with a later one.
var ErrDetectorBusy = errors.New("detector busy, frame dropped")

// ErrDetectorClosed is returned by Process once Close has been called.
var ErrDetectorClosed = errors.New("detector closed")

// DefaultConfThreshold matches the localizer's tuned operating point.
const DefaultConfThreshold = 0.25

// requestQueueSize bounds in-flight frames; beyond it submits fail fast
// instead of queueing stale video.
const requestQueueSize = 8

// Localizer finds oriented plate boxes in a full frame.
type Localizer interface {
	LocatePlates(ctx context.Context, frame image.Image, confThreshold float64) ([]OrientedBox, error)
}

// Stats is the detector's lifetime counters snapshot.
type Stats struct {
	TotalFrames     uint64  `json:"total_frames"`
	TotalDetections uint64  `json:"total_detections"`
	RuntimeSeconds  float64 `json:"runtime_seconds"`
	AvgFPS          float64 `json:"avg_fps"`
}

// Result is the outcome of processing one frame. Detected=false is a normal
// empty result, not an error. PlateNumber is set only when RawText validates.
type Result struct {
	Detected     bool
	PlateNumber  string
	RawText      string
	IsValid      bool
	Confidence   float64
	BBox         Rect
	Points       [4]Point
	ProcessingMs int64
}

type request struct {
	ctx   context.Context
	frame image.Image
	reply chan outcome
}

type outcome struct {
	res *Result
	err error
}

// Detector owns the localizer and recognizer collaborators. All inference
// runs on a single worker goroutine fed through a bounded channel, so the
// collaborators and counters are never touched concurrently.
type Detector struct {
	localizer     Localizer
	recognizer    Recognizer
	confThreshold float64
	log           *logrus.Logger

	requests chan request
	done     chan struct{}

	closeMu sync.RWMutex
	closed  bool

	totalFrames     atomic.Uint64
	totalDetections atomic.Uint64
	startTime       time.Time
}

func NewDetector(localizer Localizer, recognizer Recognizer, log *logrus.Logger) *Detector {
	d := &Detector{
		localizer:     localizer,
		recognizer:    recognizer,
		confThreshold: DefaultConfThreshold,
		log:           log,
		requests:      make(chan request, requestQueueSize),
		done:          make(chan struct{}),
		startTime:     time.Now(),
	}
	go d.run()
	return d
}

// Process submits a frame and waits for the worker's reply. It fails fast
// with ErrDetectorBusy when the queue is full and honors ctx while waiting.
// After Close it returns ErrDetectorClosed.
func (d *Detector) Process(ctx context.Context, frame image.Image) (*Result, error) {
	req := request{ctx: ctx, frame: frame, reply: make(chan outcome, 1)}

	// The read lock guards the send against Close closing the channel.
	d.closeMu.RLock()
	if d.closed {
		d.closeMu.RUnlock()
		return nil, ErrDetectorClosed
	}
	select {
	case d.requests <- req:
		d.closeMu.RUnlock()
	default:
		d.closeMu.RUnlock()
		return nil, ErrDetectorBusy
	}

	select {
	case out := <-req.reply:
		return out.res, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-d.done:
		return nil, ErrDetectorClosed
	}
}

// Stats reads the lifetime counters. Safe from any goroutine.
func (d *Detector) Stats() Stats {
	frames := d.totalFrames.Load()
	runtime := time.Since(d.startTime).Seconds()
	var fps float64
	if runtime > 0 {
		fps = float64(frames) / runtime
	}
	return Stats{
		TotalFrames:     frames,
		TotalDetections: d.totalDetections.Load(),
		RuntimeSeconds:  runtime,
		AvgFPS:          fps,
	}
}

// Close stops the worker. Pending and later Process calls return
// ErrDetectorClosed. Safe to call more than once.
func (d *Detector) Close() {
	d.closeMu.Lock()
	defer d.closeMu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	close(d.requests)
}

func (d *Detector) run() {
	defer close(d.done)
	for req := range d.requests {
		res, err := d.processFrame(req.ctx, req.frame)
		req.reply <- outcome{res: res, err: err}
	}
}

func (d *Detector) processFrame(ctx context.Context, frame image.Image) (*Result, error) {
	start := time.Now()
	d.totalFrames.Add(1)

	b := frame.Bounds()
	boxes, err := d.localizer.LocatePlates(ctx, frame, d.confThreshold)
	if err != nil {
		return nil, err
	}

	det, err := SelectBest(boxes, b.Dx(), b.Dy())
	if err != nil {
		d.log.WithField("error", err.Error()).Warn("Discarding degenerate plate region")
		return &Result{ProcessingMs: time.Since(start).Milliseconds()}, nil
	}
	if det == nil {
		return &Result{ProcessingMs: time.Since(start).Milliseconds()}, nil
	}

	crop := NormalizeCropWidth(CropGray(ToGray(frame), det.BBox))
	raw := RunEnsemble(ctx, d.recognizer, crop, d.log)
	valid, cleaned := Validate(raw)

	res := &Result{
		Detected:     true,
		RawText:      raw,
		IsValid:      valid,
		Confidence:   det.Confidence,
		BBox:         det.BBox,
		Points:       det.Points,
		ProcessingMs: time.Since(start).Milliseconds(),
	}
	if valid {
		res.PlateNumber = Format(cleaned)
		d.totalDetections.Add(1)
	}
	return res, nil
}
