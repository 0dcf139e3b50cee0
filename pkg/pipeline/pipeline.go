// Package pipeline orchestrates concurrent batch filtering of source
// images: each item is decoded, duotone-transformed, and losslessly
// re-encoded in its own task, with per-item fault isolation, an atomic
// progress counter, and results aggregated in submission order.
package pipeline

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"pinku/pkg/cache"
	"pinku/pkg/imagefilter"
)

// OutputPrefix is prepended to every source name to form the output name.
const OutputPrefix = "pinku_"

// ErrPipelineBusy is returned when Run is called while another batch is
// still in flight on the same pipeline
var ErrPipelineBusy = errors.New("pipeline busy: a batch is already running")

// SourceImage represents one raw input: undecoded image bytes plus a
// display name. The pipeline never mutates it.
type SourceImage struct {
	Name string
	Data []byte
}

// ProcessedImage represents one successfully filtered output. It is
// immutable once produced and owned by the caller.
type ProcessedImage struct {
	Name       string // OutputPrefix + SourceName
	SourceName string // original name, kept for traceability
	Data       []byte // encoded PNG bytes
}

// Failure records one item that produced no output, with the reason.
type Failure struct {
	SourceName string
	Err        error
}

// Result aggregates one batch invocation. Images and Failures are both
// ordered by submission, so downstream numbering can rely on index
// correspondence with the input list.
type Result struct {
	BatchID   uuid.UUID
	Requested int
	Images    []ProcessedImage
	Failures  []Failure
}

// Summary formats the requested-versus-returned discrepancy for display.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d of %d succeeded", len(r.Images), r.Requested)
}

// State represents the pipeline lifecycle within one invocation.
type State int32

// Pipeline states. Idle is both initial and terminal; Running is entered
// only for a non-empty batch; Completed gives way to Idle once the result
// is handed back to the caller.
const (
	StateIdle State = iota
	StateRunning
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Config holds configuration for a batch filter pipeline
type Config struct {
	OutputPrefix  string            // prefix for output names; defaults to OutputPrefix
	MaxConcurrent int               // max simultaneous item tasks; 0 means one task per image
	Cache         cache.Cache       // optional content-hash cache of filtered outputs
	OnProgress    func(percent int) // optional, invoked once per completed item, possibly from multiple goroutines
}

// DefaultConfig returns a configuration matching the original filter's
// behavior: pinku_ naming, unbounded per-image tasks, no cache.
func DefaultConfig() Config {
	return Config{OutputPrefix: OutputPrefix}
}

// Pipeline is a reusable batch filter executor. One batch runs at a time;
// each Run discards the progress and results of the previous invocation.
type Pipeline struct {
	config    Config
	state     atomic.Int32
	total     atomic.Int64
	completed atomic.Int64
}

// New creates a pipeline with the given configuration
func New(config Config) *Pipeline {
	if config.OutputPrefix == "" {
		config.OutputPrefix = OutputPrefix
	}
	return &Pipeline{config: config}
}

// State returns the current pipeline state
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

// Progress returns the integer percentage of completed items in the
// current batch, 0 when no batch has started.
func (p *Pipeline) Progress() int {
	total := p.total.Load()
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(p.completed.Load()) / float64(total) * 100))
}

// Run filters every image in the batch and returns the aggregate result.
// Items are processed independently: a decode or encode failure on one
// item contributes a Failure entry and never aborts its siblings. An
// empty batch is a no-op with no state transition and no progress events.
//
// The returned error is orchestration-level only (currently just
// ErrPipelineBusy); item-level faults are reported through
// Result.Failures.
func (p *Pipeline) Run(images []SourceImage) (*Result, error) {
	result := &Result{BatchID: uuid.New(), Requested: len(images)}
	if len(images) == 0 {
		return result, nil
	}

	if !p.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return nil, ErrPipelineBusy
	}
	defer p.state.Store(int32(StateIdle))

	// Discard progress from any prior invocation
	p.completed.Store(0)
	p.total.Store(int64(len(images)))

	// Indexed slots keep submission order regardless of completion order.
	processed := make([]*ProcessedImage, len(images))
	failures := make([]*Failure, len(images))

	var g errgroup.Group
	if p.config.MaxConcurrent > 0 {
		g.SetLimit(p.config.MaxConcurrent)
	}

	for i := range images {
		i := i
		g.Go(func() error {
			defer p.finishItem()

			img, err := p.processOne(images[i])
			if err != nil {
				failures[i] = &Failure{SourceName: images[i].Name, Err: err}
				return nil
			}
			processed[i] = img
			return nil
		})
	}

	// Item faults never reach the group error; Wait only joins the tasks.
	_ = g.Wait()

	p.state.Store(int32(StateCompleted))

	for i := range images {
		if processed[i] != nil {
			result.Images = append(result.Images, *processed[i])
		}
		if failures[i] != nil {
			result.Failures = append(result.Failures, *failures[i])
		}
	}
	return result, nil
}

// finishItem atomically advances the completed counter and publishes the
// updated progress percentage. Concurrent completions never lose an
// update; the counter is monotonically non-decreasing within one batch.
func (p *Pipeline) finishItem() {
	p.completed.Add(1)
	if p.config.OnProgress != nil {
		p.config.OnProgress(p.Progress())
	}
}

// processOne runs the full decode → transform → encode path for a single
// item. A panic anywhere in the item task is recovered into an error, so
// one malformed input can never take down sibling items.
func (p *Pipeline) processOne(src SourceImage) (img *ProcessedImage, err error) {
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = fmt.Errorf("item fault for %s: %v", src.Name, r)
		}
	}()

	outputName := p.config.OutputPrefix + src.Name

	var key string
	if p.config.Cache != nil {
		key = cache.ImageHash(src.Data)
		if item, found := p.config.Cache.Get(key); found {
			return &ProcessedImage{Name: outputName, SourceName: src.Name, Data: item.Data}, nil
		}
	}

	buffer, err := imagefilter.Decode(src.Data)
	if err != nil {
		return nil, err
	}

	imagefilter.FilterImage(buffer)

	data, err := imagefilter.EncodePNG(buffer)
	if err != nil {
		return nil, err
	}

	if p.config.Cache != nil {
		if err := p.config.Cache.Set(key, cache.Item{Data: data, Name: outputName}); err != nil {
			log.Printf("Warning: failed to cache filtered image %s: %v", src.Name, err)
		}
	}

	return &ProcessedImage{Name: outputName, SourceName: src.Name, Data: data}, nil
}
