package markdown

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdview/internal/logging"
	"github.com/yaklabco/mdview/pkg/mdast"
)

// ParseFunc parses source into a document. It runs on a background goroutine
// and must honour ctx cancellation.
type ParseFunc func(ctx context.Context, source string) (*mdast.ParsedDocument, error)

// Executor runs background tasks.
type Executor interface {
	Go(task func())
}

// GoExecutor runs every task on a new goroutine.
type GoExecutor struct{}

// Go implements Executor.
func (GoExecutor) Go(task func()) {
	go task()
}

// SchedulerState is the reparse state of a Scheduler.
type SchedulerState uint8

// Scheduler states.
const (
	StateIdle SchedulerState = iota
	StateParsing
	StateParsingWithPendingReparse
)

func (s SchedulerState) String() string {
	switch s {
	case StateParsing:
		return "Parsing"
	case StateParsingWithPendingReparse:
		return "ParsingWithPendingReparse"
	default:
		return "Idle"
	}
}

// Scheduler owns a markdown source and keeps its parsed document up to date.
// At most one parse runs at a time; edits made while it runs are folded into
// a single follow-up parse of the latest source.
type Scheduler struct {
	mu            sync.Mutex
	source        string
	parsed        *mdast.ParsedDocument
	parsing       bool
	shouldReparse bool
	generation    uint64
	cancel        context.CancelFunc
	idle          chan struct{}

	parse    ParseFunc
	exec     Executor
	logger   *log.Logger
	onUpdate func()
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithSchedulerExecutor sets where parse tasks run.
func WithSchedulerExecutor(exec Executor) SchedulerOption {
	return func(s *Scheduler) {
		if exec != nil {
			s.exec = exec
		}
	}
}

// WithSchedulerLogger sets the logger parse failures are reported to.
func WithSchedulerLogger(logger *log.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// OnUpdate registers a callback run after every installed parse, outside
// the scheduler lock.
func OnUpdate(fn func()) SchedulerOption {
	return func(s *Scheduler) {
		s.onUpdate = fn
	}
}

// NewScheduler creates a scheduler for source and starts parsing it.
func NewScheduler(source string, parse ParseFunc, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		source: source,
		parsed: mdast.NewParsedDocument("", nil),
		parse:  parse,
		exec:   GoExecutor{},
		logger: logging.Default(),
		idle:   closedChan(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mu.Lock()
	task := s.requestLocked()
	s.mu.Unlock()
	s.launch(task)

	return s
}

// Source returns the current source.
func (s *Scheduler) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Parsed returns the most recently installed document. It may lag behind
// Source while a parse is in flight.
func (s *Scheduler) Parsed() *mdast.ParsedDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parsed
}

// State returns the current reparse state.
func (s *Scheduler) State() SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.parsing && s.shouldReparse:
		return StateParsingWithPendingReparse
	case s.parsing:
		return StateParsing
	default:
		return StateIdle
	}
}

// Append adds text to the source and schedules a reparse.
func (s *Scheduler) Append(text string) {
	s.mu.Lock()
	s.source += text
	task := s.requestLocked()
	s.mu.Unlock()
	s.launch(task)
}

// Reset replaces the source. It returns false, doing nothing, when source is
// unchanged. Otherwise the in-flight parse is abandoned, the document is
// emptied and a fresh parse starts.
func (s *Scheduler) Reset(source string) bool {
	s.mu.Lock()
	if source == s.source {
		s.mu.Unlock()
		return false
	}

	s.source = source
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.parsing = false
	s.shouldReparse = false
	s.parsed = mdast.NewParsedDocument("", nil)
	s.markIdleLocked()
	task := s.requestLocked()
	s.mu.Unlock()

	s.launch(task)
	return true
}

// Wait blocks until no parse is in flight or pending, or ctx is done.
func (s *Scheduler) Wait(ctx context.Context) error {
	for {
		s.mu.Lock()
		idle := s.idle
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-idle:
		}

		// Reset may have started a new parse between the close and now.
		if s.State() == StateIdle {
			return nil
		}
	}
}

// requestLocked moves the state machine for a source change and returns the
// task to launch, if any, once the lock is released.
func (s *Scheduler) requestLocked() func() {
	if s.parsing {
		s.shouldReparse = true
		return nil
	}
	if s.source == "" {
		return nil
	}

	s.parsing = true
	s.shouldReparse = false
	select {
	case <-s.idle:
		s.idle = make(chan struct{})
	default:
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	gen := s.generation
	source := s.source

	return func() {
		doc, err := s.parse(ctx, source)
		cancel()
		s.complete(gen, doc, err)
	}
}

func (s *Scheduler) complete(gen uint64, doc *mdast.ParsedDocument, err error) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}

	s.parsing = false
	s.cancel = nil
	installed := false
	if err != nil {
		s.logger.Error("markdown parse failed",
			logging.FieldError, err,
			logging.FieldGeneration, gen,
			logging.FieldBytes, len(s.source))
	} else {
		s.parsed = doc
		installed = true
	}

	var task func()
	if s.shouldReparse {
		task = s.requestLocked()
	}
	if !s.parsing {
		s.markIdleLocked()
	}
	onUpdate := s.onUpdate
	s.mu.Unlock()

	s.launch(task)
	if installed && onUpdate != nil {
		onUpdate()
	}
}

func (s *Scheduler) markIdleLocked() {
	select {
	case <-s.idle:
	default:
		close(s.idle)
	}
}

func (s *Scheduler) launch(task func()) {
	if task != nil {
		s.exec.Go(task)
	}
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
