package forecaster

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aouyang1/go-salesforecaster/segment"
)

var (
	ErrInvalidSelection = errors.New("invalid selection")
	ErrInvalidForecast  = errors.New("forecast failed output checks")
	ErrUnsupportedModel = errors.New("unsupported model")
)

// MaxHorizon is the longest forecast in days a request may ask for
const MaxHorizon = 365

// Request is a validated forecast selection
type Request struct {
	Entity  segment.Entity `json:"entity"`
	Target  segment.Target `json:"target"`
	Model   segment.Model  `json:"model"`
	Horizon int            `json:"horizon"`
}

// Validate checks every field belongs to its closed set and the horizon is between 1 and
// MaxHorizon
func (r Request) Validate() error {
	if !r.Entity.Valid() {
		return fmt.Errorf("entity %s, %w", r.Entity, ErrInvalidSelection)
	}
	if !r.Target.Valid() {
		return fmt.Errorf("target %s, %w", r.Target, ErrInvalidSelection)
	}
	if !r.Model.Valid() {
		return fmt.Errorf("model %s, %w", r.Model, ErrInvalidSelection)
	}
	if r.Horizon < 1 || r.Horizon > MaxHorizon {
		return fmt.Errorf("horizon %d outside 1 to %d, %w", r.Horizon, MaxHorizon, ErrInvalidSelection)
	}
	return nil
}

// Input is an unvalidated selection as typed by a user
type Input struct {
	Entity  string
	Target  string
	Model   string
	Horizon string
}

// ParseHorizon is lenient: anything that is not an integer of at least 1 falls back to
// the default horizon and anything longer than MaxHorizon is capped
func ParseHorizon(s string, defaultHorizon int) int {
	h, err := strconv.Atoi(strings.TrimSpace(s))
	if errors.Is(err, strconv.ErrRange) && h > 0 {
		return MaxHorizon
	}
	if err != nil || h < 1 {
		return defaultHorizon
	}
	return min(h, MaxHorizon)
}

// ParseRequest resolves the entity, target and model names. Only the horizon is lenient.
func ParseRequest(in Input, defaultHorizon int) (Request, error) {
	entity, err := segment.ParseEntity(in.Entity)
	if err != nil {
		return Request{}, fmt.Errorf("%v, %w", err, ErrInvalidSelection)
	}
	target, err := segment.ParseTarget(in.Target)
	if err != nil {
		return Request{}, fmt.Errorf("%v, %w", err, ErrInvalidSelection)
	}
	model, err := segment.ParseModel(in.Model)
	if err != nil {
		return Request{}, fmt.Errorf("%v, %w", err, ErrInvalidSelection)
	}
	return Request{
		Entity:  entity,
		Target:  target,
		Model:   model,
		Horizon: ParseHorizon(in.Horizon, defaultHorizon),
	}, nil
}

// Stage is a step of a forecast request
type Stage int

const (
	Validating Stage = iota
	Fetching
	Dispatching
	Normalizing
	Done
)

var stageNames = [...]string{"validating", "fetching", "dispatching", "normalizing", "done"}

func (s Stage) String() string {
	if s < Validating || s > Done {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// Failure records the stage a request stopped at
type Failure struct {
	Stage Stage
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Stage, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}
