// ABOUTME: Date-fallback resolution for APOD requests
// ABOUTME: Walks backward from a requested date until a content source has an entry

package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harper/apod/internal/fetch"
	"github.com/harper/apod/internal/models"
	"github.com/harper/apod/internal/timeutil"
)

// MaxBackwardSteps bounds how many earlier days a search may try.
const MaxBackwardSteps = 7

// initialBackwardSteps is the bound for ModeInitial: today, then yesterday.
const initialBackwardSteps = 1

// ErrInvalidDate is returned for dates before the floor or after today.
var ErrInvalidDate = errors.New("date outside supported range")

// Source returns the record for a date, or an error whose kind can be
// read with fetch.KindOf. *fetch.Client satisfies it.
type Source interface {
	Fetch(ctx context.Context, date time.Time) (*models.Record, error)
}

// Mode describes why a resolution was requested.
type Mode int

const (
	// ModeInitial is the first load with no date chosen yet.
	ModeInitial Mode = iota
	// ModeExplicit is a user-chosen date.
	ModeExplicit
	// ModeTodayCheck is a "jump to today" that must not silently fall back.
	ModeTodayCheck
)

func (m Mode) String() string {
	switch m {
	case ModeInitial:
		return "initial"
	case ModeExplicit:
		return "explicit"
	case ModeTodayCheck:
		return "today-check"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts the names produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "initial":
		return ModeInitial, nil
	case "explicit", "":
		return ModeExplicit, nil
	case "today-check", "today_check":
		return ModeTodayCheck, nil
	default:
		return ModeExplicit, fmt.Errorf("unknown mode %q: use initial, explicit, or today-check", s)
	}
}

// Status is the outcome variant of a Result.
type Status int

const (
	StatusResolved Status = iota
	StatusUnresolved
	StatusNeedsConfirmation
)

func (s Status) String() string {
	switch s {
	case StatusResolved:
		return "resolved"
	case StatusUnresolved:
		return "unresolved"
	case StatusNeedsConfirmation:
		return "needs_confirmation"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Reason explains an unresolved result.
type Reason int

const (
	ReasonNone Reason = iota
	// ReasonExhausted means the backward search ran out of steps or hit the floor.
	ReasonExhausted
	// ReasonTransport means the first query failed for reasons other than missing content.
	ReasonTransport
)

func (r Reason) String() string {
	switch r {
	case ReasonExhausted:
		return "exhausted"
	case ReasonTransport:
		return "transport"
	default:
		return ""
	}
}

// Result is what a caller renders.
type Result struct {
	Status        Status
	Mode          Mode
	Record        *models.Record
	RequestedDate time.Time
	EffectiveDate time.Time // zero unless Status is StatusResolved
	Reason        Reason
	Err           error // last upstream failure, if any
	Attempts      int   // upstream queries issued
}

// Resolved reports whether a record is available.
func (r Result) Resolved() bool {
	return r.Status == StatusResolved
}

// FellBack reports whether the displayed date differs from the requested one.
func (r Result) FellBack() bool {
	return r.Resolved() && !timeutil.SameDay(r.EffectiveDate, r.RequestedDate)
}

// Resolver applies the fallback policy against a Source. It keeps no state
// between calls.
type Resolver struct {
	source Source
	now    func() time.Time
	loc    *time.Location
	logger *log.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLocation sets the timezone that defines "today".
func WithLocation(loc *time.Location) Option {
	return func(r *Resolver) {
		if loc != nil {
			r.loc = loc
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Resolver reading from source.
func New(source Source, opts ...Option) *Resolver {
	r := &Resolver{
		source: source,
		now:    time.Now,
		loc:    time.Local,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Today returns the current calendar date in the resolver's timezone.
func (r *Resolver) Today() time.Time {
	return timeutil.Today(r.now(), r.loc)
}

// Location returns the resolver's timezone.
func (r *Resolver) Location() *time.Location {
	return r.loc
}

// Resolve finds the record to display for requested. ModeInitial and
// ModeTodayCheck always start from today and ignore requested.
// The only error returned is ErrInvalidDate; upstream failures are
// reported through the Result.
func (r *Resolver) Resolve(ctx context.Context, requested time.Time, mode Mode) (Result, error) {
	today := r.Today()
	if mode == ModeInitial || mode == ModeTodayCheck {
		requested = today
	} else {
		requested = timeutil.DateOf(requested, r.loc)
	}

	if !timeutil.InRange(requested, today) {
		return Result{}, fmt.Errorf("%w: %s is not between %s and %s", ErrInvalidDate,
			timeutil.Format(requested), timeutil.Format(timeutil.Floor(r.loc)), timeutil.Format(today))
	}

	switch mode {
	case ModeTodayCheck:
		return r.checkToday(ctx, requested), nil
	case ModeInitial:
		return r.search(ctx, requested, mode, initialBackwardSteps, true), nil
	default:
		return r.search(ctx, requested, mode, MaxBackwardSteps, false), nil
	}
}

// search queries start and then up to steps earlier days, never crossing
// the floor. Failures during backward steps are skipped over. A transport
// failure on start ends the search unless tolerateFirst is set.
func (r *Resolver) search(ctx context.Context, start time.Time, mode Mode, steps int, tolerateFirst bool) Result {
	res := Result{Mode: mode, RequestedDate: start}

	rec, err := r.source.Fetch(ctx, start)
	res.Attempts++
	if err == nil {
		return resolved(res, rec, start)
	}
	res.Err = err

	if !fetch.IsNotFound(err) && !tolerateFirst {
		r.logger.Debug("initial query failed", "date", timeutil.Format(start), "err", err)
		res.Status = StatusUnresolved
		res.Reason = ReasonTransport
		return res
	}

	floor := timeutil.Floor(r.loc)
	candidate := start
	for step := 1; step <= steps; step++ {
		candidate = timeutil.PreviousDay(candidate)
		if candidate.Before(floor) {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			res.Status = StatusUnresolved
			res.Reason = ReasonTransport
			res.Err = ctxErr
			return res
		}

		r.logger.Debug("searching earlier date", "requested", timeutil.Format(start), "candidate", timeutil.Format(candidate), "step", step)
		rec, err := r.source.Fetch(ctx, candidate)
		res.Attempts++
		if err == nil {
			return resolved(res, rec, candidate)
		}
		res.Err = err
		if !fetch.IsNotFound(err) {
			r.logger.Debug("skipping date after fetch failure", "date", timeutil.Format(candidate), "kind", fetch.KindOf(err), "err", err)
		}
	}

	res.Status = StatusUnresolved
	res.Reason = ReasonExhausted
	return res
}

func (r *Resolver) checkToday(ctx context.Context, today time.Time) Result {
	res := Result{Mode: ModeTodayCheck, RequestedDate: today, Attempts: 1}

	rec, err := r.source.Fetch(ctx, today)
	switch {
	case err == nil:
		return resolved(res, rec, today)
	case fetch.IsNotFound(err):
		res.Status = StatusNeedsConfirmation
		res.Err = err
	default:
		res.Status = StatusUnresolved
		res.Reason = ReasonTransport
		res.Err = err
	}
	return res
}

func resolved(res Result, rec *models.Record, effective time.Time) Result {
	res.Status = StatusResolved
	res.Record = rec
	res.EffectiveDate = effective
	res.Reason = ReasonNone
	res.Err = nil
	return res
}
