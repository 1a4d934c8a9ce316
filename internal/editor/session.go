package editor

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	"github.com/sahilahmad48178-star/AI-image/internal/infra"
)

// State enumerates the session lifecycle. Saved and Cancelled are terminal;
// every editing intent requires Active.
type State string

const (
	StateIdle      State = "idle"
	StateActive    State = "active"
	StateSaved     State = "saved"
	StateCancelled State = "cancelled"
)

var (
	// ErrSessionBusy is returned when a collaborator call is already in
	// flight; magic intents fail fast instead of racing.
	ErrSessionBusy = errors.New("editor: session busy")
	// ErrSessionClosed is returned for intents against a session that has
	// been saved or cancelled.
	ErrSessionClosed = errors.New("editor: session closed")
	// ErrStaleResult marks a collaborator result that arrived after the
	// session state it was computed from was superseded. The result is
	// discarded.
	ErrStaleResult = errors.New("editor: stale collaborator result")
	// ErrNoSession is returned by the manager for unknown session ids.
	ErrNoSession = errors.New("editor: session not found")
)

// Session orchestrates one editing interaction: it owns the live parameters,
// the base image, the history stack and the busy flag, and dispatches
// intents to the compositor, crop engine and AI bridge. A session mutex
// makes parameter mutations and history operations atomic with respect to
// each other, mirroring the single-threaded event loop the design assumes.
type Session struct {
	mu      sync.Mutex
	id      string
	state   State
	base    image.Image
	params  Params
	history *History
	bridge  *Bridge
	logger  infra.Logger
	busy    bool
	touched time.Time

	// gen tags the session state; collaborator results are applied only if
	// the tag they were computed under is still current, so a late result
	// can never clobber a newer edit.
	gen uint64

	// OnSave and OnCancel are the session's only two exit callbacks to the
	// host. Either may be nil.
	OnSave   func(final []byte) error
	OnCancel func()
}

// NewSession constructs an Idle session around the given bridge.
func NewSession(id string, bridge *Bridge, logger infra.Logger) *Session {
	return &Session{
		id:      id,
		state:   StateIdle,
		bridge:  bridge,
		logger:  logger,
		touched: time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Open decodes the host-supplied image and activates the session, seeding
// history with a single neutral snapshot.
func (s *Session) Open(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return ErrSessionClosed
	}
	img, err := Decode(data)
	if err != nil {
		return err
	}
	s.base = img
	s.params = Neutral()
	s.history = NewHistory(Snapshot{Base: img, Params: s.params})
	s.state = StateActive
	s.touch()
	return nil
}

// Adjust sets the four photometric parameters and commits a snapshot.
// Out-of-domain values are the host's responsibility to clamp.
func (s *Session) Adjust(brightness, contrast, saturation, grayscale int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireActive(); err != nil {
		return err
	}
	s.params.Brightness = brightness
	s.params.Contrast = contrast
	s.params.Saturation = saturation
	s.params.Grayscale = grayscale
	s.commit()
	return nil
}

// Rotate advances the rotation accumulator one step clockwise.
func (s *Session) Rotate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireActive(); err != nil {
		return err
	}
	s.params.Rotation += RotationStep
	s.commit()
	return nil
}

// Flip toggles the horizontal mirror.
func (s *Session) Flip() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireActive(); err != nil {
		return err
	}
	s.params.FlipH = !s.params.FlipH
	s.commit()
	return nil
}

// Crop bakes the current state, cuts the centered region with the target
// ratio, and installs the result as a fresh base image. All live parameters
// reset to neutral because their effect is already in the cropped pixels;
// reapplying them would double them.
func (s *Session) Crop(ratio float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireActive(); err != nil {
		return err
	}
	flat := Bake(s.base, s.params)
	cropped, err := CropToAspect(flat, ratio)
	if err != nil {
		return err
	}
	s.installBase(cropped)
	return nil
}

// Magic flattens the current state, submits it with the instruction to the
// generation collaborator, and installs the result as a fresh base image
// with parameters reset. A second invocation while one is in flight fails
// with ErrSessionBusy. On failure live state and history are untouched.
func (s *Session) Magic(ctx context.Context, instruction string) error {
	return s.applyBridge(ctx, func(ctx context.Context, baked []byte) (image.Image, error) {
		return s.bridge.Apply(ctx, baked, instruction)
	})
}

// Upscale submits the flattened state with a target resolution tier.
func (s *Session) Upscale(ctx context.Context, tier string) error {
	return s.applyBridge(ctx, func(ctx context.Context, baked []byte) (image.Image, error) {
		return s.bridge.Upscale(ctx, baked, tier)
	})
}

func (s *Session) applyBridge(ctx context.Context, call func(context.Context, []byte) (image.Image, error)) error {
	s.mu.Lock()
	if err := s.requireActive(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.busy {
		s.mu.Unlock()
		return ErrSessionBusy
	}
	s.busy = true
	token := s.gen
	baked, err := EncodePNG(Bake(s.base, s.params))
	s.mu.Unlock()
	if err != nil {
		s.clearBusy()
		return err
	}

	// The collaborator call is the one suspension point; the session stays
	// usable (crop and save are not blocked) while it is in flight.
	result, callErr := call(ctx, baked)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if callErr != nil {
		return callErr
	}
	if s.state != StateActive {
		s.logger.Debug().Str("session", s.id).Msg("editor: discarding collaborator result for closed session")
		return ErrSessionClosed
	}
	if s.gen != token {
		s.logger.Debug().Str("session", s.id).Msg("editor: discarding stale collaborator result")
		return ErrStaleResult
	}
	s.installBase(result)
	return nil
}

// Undo steps history back and restores that snapshot as live state. It is a
// no-op at the start of history.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return false
	}
	snap, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.restore(snap)
	return true
}

// Redo steps history forward. It is a no-op at the end of history.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return false
	}
	snap, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.restore(snap)
	return true
}

// Preview bakes the current state without mutating it.
func (s *Session) Preview() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	return EncodePNG(Bake(s.base, s.params))
}

// Save bakes the final buffer, hands it to the OnSave callback, and tears
// the session down. The buffer is also returned to the caller. The callback
// runs with the session mutex released so it may call back into the session
// (Info, State); the same generation-token guard as applyBridge keeps a
// concurrent edit from being silently dropped by the teardown.
func (s *Session) Save() ([]byte, error) {
	s.mu.Lock()
	if err := s.requireActive(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	final, err := EncodePNG(Bake(s.base, s.params))
	token := s.gen
	onSave := s.OnSave
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if onSave != nil {
		if err := onSave(final); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return nil, ErrSessionClosed
	}
	if s.gen != token {
		return nil, ErrStaleResult
	}
	s.state = StateSaved
	s.teardown()
	return final, nil
}

// Cancel discards all session state without producing output.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireActive(); err != nil {
		return err
	}
	s.state = StateCancelled
	s.teardown()
	if s.OnCancel != nil {
		s.OnCancel()
	}
	return nil
}

// Info is a read-only view of session state for transports.
type Info struct {
	ID           string `json:"id"`
	State        State  `json:"state"`
	Params       Params `json:"params"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	HistoryLen   int    `json:"history_len"`
	HistoryIndex int    `json:"history_index"`
	CanUndo      bool   `json:"can_undo"`
	CanRedo      bool   `json:"can_redo"`
	Busy         bool   `json:"busy"`
}

// Info snapshots the session for presentation. Width and height describe the
// rendered surface, so they swap for sideways rotations.
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	info := Info{ID: s.id, State: s.state, Params: s.params, Busy: s.busy}
	if s.base != nil {
		b := s.base.Bounds()
		info.Width, info.Height = b.Dx(), b.Dy()
		if s.params.SwapsDimensions() {
			info.Width, info.Height = info.Height, info.Width
		}
	}
	if s.history != nil {
		info.HistoryLen = s.history.Len()
		info.HistoryIndex = s.history.Index()
		info.CanUndo = s.history.CanUndo()
		info.CanRedo = s.history.CanRedo()
	}
	return info
}

// Busy reports whether a collaborator call is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastTouched returns the time of the most recent intent, for idle sweeps.
func (s *Session) LastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

func (s *Session) requireActive() error {
	if s.state != StateActive {
		return ErrSessionClosed
	}
	return nil
}

// installBase replaces the base image with a freshly produced one and resets
// the live parameters to neutral, then commits.
func (s *Session) installBase(img image.Image) {
	s.base = img
	s.params = Neutral()
	s.commit()
}

func (s *Session) commit() {
	s.gen++
	s.history.Commit(Snapshot{Base: s.base, Params: s.params})
	s.touch()
}

// restore applies a snapshot's fields onto live state without touching the
// stack itself.
func (s *Session) restore(snap Snapshot) {
	s.gen++
	s.base = snap.Base
	s.params = snap.Params
	s.touch()
}

func (s *Session) teardown() {
	s.base = nil
	s.history = nil
	s.params = Neutral()
	s.gen++
	s.touch()
}

func (s *Session) touch() {
	s.touched = time.Now()
}

func (s *Session) clearBusy() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}
