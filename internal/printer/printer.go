// This package talks to Brother QL label printers: it encodes raster print
// jobs, decodes status replies, and sequences the commands of a job.
//
// A Printer drives one device over one Transport. The device accepts a single
// command stream at a time, so operations on a Printer are serialised; callers
// sharing a transport between several Printer values must serialise
// themselves.
package printer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"tomgalvin.uk/qlprint/internal/bitmap"
	"tomgalvin.uk/qlprint/internal/media"
)

const (
	DefaultTimeout      = 500 * time.Millisecond
	DefaultPollInterval = 50 * time.Millisecond
)

// Transport moves bytes to and from the printer's bulk endpoints. Both calls
// block until done or until ctx expires.
type Transport interface {
	Write(ctx context.Context, data []byte) error
	Read(ctx context.Context, buf []byte) (int, error)
}

type State int

const (
	Idle State = iota
	StatusQueried
	ModeSet
	MediaDescribed
	SettingsApplied
	MarginsSet
	LinesSent
	Triggered
	AwaitingCompletion
	Done
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case StatusQueried:
		return "StatusQueried"
	case ModeSet:
		return "ModeSet"
	case MediaDescribed:
		return "MediaDescribed"
	case SettingsApplied:
		return "SettingsApplied"
	case MarginsSet:
		return "MarginsSet"
	case LinesSent:
		return "LinesSent"
	case Triggered:
		return "Triggered"
	case AwaitingCompletion:
		return "AwaitingCompletion"
	case Done:
		return "Done"
	case Errored:
		return "Errored"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Options struct {
	// bound on every single write or read
	Timeout time.Duration
	// delay between reads while waiting for a job to complete
	PollInterval time.Duration
	Logger       *slog.Logger
}

type Printer struct {
	transport    Transport
	timeout      time.Duration
	pollInterval time.Duration
	logger       *slog.Logger

	// Called with every reply read while PrintBlocking waits for completion,
	// including error replies, which don't stop the wait
	PollObserver func(*Status)

	Model Model

	lock  sync.Mutex
	state State
}

func New(t Transport, o Options) *Printer {
	p := &Printer{
		transport:    t,
		timeout:      o.Timeout,
		pollInterval: o.PollInterval,
		logger:       o.Logger,
		state:        Idle,
	}
	if p.timeout <= 0 {
		p.timeout = DefaultTimeout
	}
	if p.pollInterval <= 0 {
		p.pollInterval = DefaultPollInterval
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// State of the most recent job
func (p *Printer) State() State {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.state
}

// Resets the printer and reads its status to find out which model it is
func (p *Printer) Initialize(ctx context.Context) (*Status, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if err := p.write(ctx, clearCommand()); err != nil {
		return nil, err
	}
	if err := p.write(ctx, initCommand()); err != nil {
		return nil, err
	}
	s, err := p.status(ctx)
	if err != nil {
		return nil, err
	}
	p.Model = s.Model
	p.logger.Info("Printer initialised", "model", s.Model.String(), "media", s.Media.Kind.String())
	return s, nil
}

// Gets the current status of the printer including possible errors, media
// type, and model name
func (p *Printer) Status(ctx context.Context) (*Status, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.status(ctx)
}

// Gets the geometry of the currently loaded media
func (p *Printer) CurrentLabel(ctx context.Context) (media.Geometry, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	s, err := p.status(ctx)
	if err != nil {
		return media.Geometry{}, err
	}
	return s.Media.Geometry()
}

// Sends raster lines to the printer, starts printing, and returns the first
// reply the printer sends after the print command, whatever it is.
//
// The lines are printed in order, line 0 first. Nothing is written to the
// printer past the status request if there's no known media loaded.
func (p *Printer) Print(ctx context.Context, lines []bitmap.RasterLine) (*Status, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	j := p.newJob()
	s, err := j.print(ctx, lines)
	p.state = j.state
	return s, err
}

// Same as Print but doesn't return until the printer reports that it has
// finished printing, or ctx is done. Replies other than PrintingCompleted,
// and failed reads, are tolerated while waiting; there's no upper bound on
// the wait other than ctx.
func (p *Printer) PrintBlocking(ctx context.Context, lines []bitmap.RasterLine) (*Status, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	j := p.newJob()
	defer func() { p.state = j.state }()

	reply, err := j.print(ctx, lines)
	if err != nil {
		return nil, err
	}
	if reply.Type == PrintingCompleted {
		j.advance(Done)
		j.logger.Info("Printer finished printing")
		return reply, nil
	}
	return j.awaitCompletion(ctx)
}

func (p *Printer) status(ctx context.Context) (*Status, error) {
	if err := p.write(ctx, statusRequestCommand()); err != nil {
		return nil, err
	}
	return p.read(ctx)
}

func (p *Printer) write(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.transport.Write(ctx, data); err != nil {
		p.logger.Error("Couldn't write data", "error", err)
		return &TransportError{Op: "write", Err: err}
	}
	p.logger.Debug("Wrote data to device", "size", len(data))
	return nil
}

func (p *Printer) read(ctx context.Context) (*Status, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	buf := make([]byte, StatusSize)
	n, err := p.transport.Read(ctx, buf)
	if err != nil {
		return nil, &TransportError{Op: "read", Err: err}
	}
	s, err := DecodeStatus(buf[:n])
	if err != nil {
		return nil, err
	}
	p.logger.Debug("Read status from device", "status", s.String())
	return s, nil
}

type job struct {
	p      *Printer
	id     uuid.UUID
	logger *slog.Logger
	state  State
}

func (p *Printer) newJob() *job {
	id := uuid.New()
	return &job{
		p:      p,
		id:     id,
		logger: p.logger.With("job", id.String()),
		state:  Idle,
	}
}

func (j *job) advance(s State) {
	if j.state == Errored {
		return
	}
	j.logger.Debug("Job state changed", "from", j.state.String(), "to", s.String())
	j.state = s
}

func (j *job) fail(err error) error {
	j.logger.Error("Print job failed", "state", j.state.String(), "error", err)
	j.state = Errored
	return err
}

// writes each command in turn then moves to the given state
func (j *job) send(ctx context.Context, next State, commands ...[]byte) error {
	for _, c := range commands {
		if err := j.p.write(ctx, c); err != nil {
			return j.fail(err)
		}
	}
	j.advance(next)
	return nil
}

func (j *job) print(ctx context.Context, lines []bitmap.RasterLine) (*Status, error) {
	s, err := j.p.status(ctx)
	if err != nil {
		return nil, j.fail(err)
	}
	j.advance(StatusQueried)

	mediaType, ok := mediaTypeCode(s.Media.Kind)
	if !ok {
		return nil, j.fail(ErrNoMediaLoaded)
	}
	label, err := s.Media.Geometry()
	if err != nil {
		return nil, j.fail(err)
	}
	j.logger.Info("Printing job", "lines", len(lines), "media", label.String())

	if err := j.send(ctx, ModeSet, rasterModeCommand()); err != nil {
		return nil, err
	}
	if err := j.send(ctx, MediaDescribed,
		mediaCommand(mediaType, s.Media.Width, s.Media.Length, uint32(len(lines)))); err != nil {
		return nil, err
	}
	if err := j.send(ctx, SettingsApplied, autoCutCommand(), cutSettingsCommand()); err != nil {
		return nil, err
	}
	if err := j.send(ctx, MarginsSet, marginsCommand(label.FeedMargin)); err != nil {
		return nil, err
	}
	for i := range lines {
		if err := j.p.write(ctx, rasterLineCommand(&lines[i])); err != nil {
			return nil, j.fail(fmt.Errorf("Couldn't send raster line %d:\n%w", i, err))
		}
	}
	j.advance(LinesSent)
	if err := j.send(ctx, Triggered, printCommand()); err != nil {
		return nil, err
	}

	reply, err := j.p.read(ctx)
	if err != nil {
		return nil, j.fail(err)
	}
	j.logger.Info("Print started", "status", reply.Type.String())
	return reply, nil
}

func (j *job) awaitCompletion(ctx context.Context) (*Status, error) {
	j.advance(AwaitingCompletion)
	j.logger.Info("Waiting for printer to finish printing")

	for {
		if err := ctx.Err(); err != nil {
			return nil, j.fail(err)
		}
		s, err := j.p.read(ctx)
		switch {
		case err == nil && s.Type == PrintingCompleted:
			j.advance(Done)
			j.logger.Info("Printer finished printing")
			return s, nil
		case err == nil:
			j.logger.Debug("Still printing", "status", s.String())
			if s.Type == ErrorOccurred {
				j.logger.Warn("Printer reported an error while printing", "errors", s.Errors)
			}
			if j.p.PollObserver != nil {
				j.p.PollObserver(s)
			}
		default:
			j.logger.Debug("No completion reply yet", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil, j.fail(ctx.Err())
		case <-time.After(j.p.pollInterval):
		}
	}
}
