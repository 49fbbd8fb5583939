package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"hbnb/internal/codec"
	"hbnb/internal/domain"
	"hbnb/internal/repository"

	"go.uber.org/zap"
)

// KeySeparator joins kind and id in a composite key
const KeySeparator = "."

var (
	ErrNotFound          = errors.New("no instance found")
	ErrMalformedDocument = codec.ErrMalformedDocument
)

// State describes what the registry holds
type State int

const (
	StateUninitialized State = iota
	StateEmpty
	StatePopulated
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePopulated:
		return "populated"
	default:
		return "uninitialized"
	}
}

// Key builds the composite registry key "<kind>.<id>"
func Key(kind domain.Kind, id string) string {
	return string(kind) + KeySeparator + id
}

// SplitKey breaks a composite key at its first separator
func SplitKey(key string) (domain.Kind, string, bool) {
	kind, id, ok := strings.Cut(key, KeySeparator)
	if !ok || kind == "" || id == "" {
		return "", "", false
	}
	return domain.Kind(kind), id, true
}

// Engine owns the registry of live records and mediates all persistence.
//
// Engine is not safe for concurrent use. Callers sharing one across
// goroutines must serialize every call themselves.
type Engine struct {
	backend     repository.Backend
	objects     map[string]domain.Record
	logger      *zap.Logger
	now         func() time.Time
	initialized bool
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine's logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the time source used for new records
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an engine persisting through backend
func New(backend repository.Backend, opts ...Option) *Engine {
	e := &Engine{
		backend: backend,
		objects: make(map[string]domain.Record),
		logger:  zap.NewNop(),
		now:     domain.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State reports whether the registry has been loaded and whether it is empty
func (e *Engine) State() State {
	switch {
	case !e.initialized:
		return StateUninitialized
	case len(e.objects) == 0:
		return StateEmpty
	default:
		return StatePopulated
	}
}

// All returns the live registry. Iteration order is unspecified.
func (e *Engine) All() map[string]domain.Record {
	return e.objects
}

// Register inserts r under its composite key, replacing any record already
// there, and binds r so that r.Save persists through this engine.
func (e *Engine) Register(r domain.Record) {
	r.Bind(e)
	e.objects[Key(r.Kind(), r.ID())] = r
	e.initialized = true
}

// Create constructs and registers a new record of kind
func (e *Engine) Create(kind domain.Kind) (domain.Record, error) {
	r, err := domain.New(kind, e.now())
	if err != nil {
		return nil, err
	}
	e.Register(r)
	e.logger.Debug("record created",
		zap.String("kind", string(kind)),
		zap.String("id", r.ID()))
	return r, nil
}

// GetAll returns the records of kind sorted by key, or every record when
// kind is empty
func (e *Engine) GetAll(kind domain.Kind) ([]domain.Record, error) {
	if kind != "" && !kind.IsKnown() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}

	keys := make([]string, 0, len(e.objects))
	for key, r := range e.objects {
		if kind == "" || r.Kind() == kind {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	records := make([]domain.Record, len(keys))
	for i, key := range keys {
		records[i] = e.objects[key]
	}
	return records, nil
}

// Count returns how many records of kind are registered
func (e *Engine) Count(kind domain.Kind) (int, error) {
	if !kind.IsKnown() {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
	n := 0
	for _, r := range e.objects {
		if r.Kind() == kind {
			n++
		}
	}
	return n, nil
}

// Get returns the record registered at kind and id
func (e *Engine) Get(kind domain.Kind, id string) (domain.Record, error) {
	if !kind.IsKnown() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
	r, ok := e.objects[Key(kind, id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, Key(kind, id))
	}
	return r, nil
}

// Delete removes the record at kind and id from the registry. It does not
// persist; call Save afterwards.
func (e *Engine) Delete(kind domain.Kind, id string) error {
	r, err := e.Get(kind, id)
	if err != nil {
		return err
	}
	r.Bind(nil)
	delete(e.objects, Key(kind, id))
	return nil
}

// Update assigns attrs onto the record at kind and id, then saves it.
// Nothing is assigned unless every value is accepted.
func (e *Engine) Update(kind domain.Kind, id string, attrs map[string]any) error {
	r, err := e.Get(kind, id)
	if err != nil {
		return err
	}

	// Validate against a scratch copy first so a bad value leaves r intact
	scratch, err := domain.FromAttributes(kind, stripKind(r.ToAttributes()))
	if err != nil {
		return err
	}
	for name, value := range attrs {
		if err := scratch.Set(name, value); err != nil {
			return err
		}
	}

	for name, value := range attrs {
		if err := r.Set(name, value); err != nil {
			return err
		}
	}
	return r.Save()
}

// Snapshot serializes the registry into the document Save would write
func (e *Engine) Snapshot() codec.Document {
	doc := make(codec.Document, len(e.objects))
	for key, r := range e.objects {
		doc[key] = r.ToAttributes()
	}
	return doc
}

// Save implements domain.Saver by persisting the whole registry
func (e *Engine) Save() error {
	return e.SaveContext(context.Background())
}

// SaveContext writes every registered record to the backend
func (e *Engine) SaveContext(ctx context.Context) error {
	doc := e.Snapshot()
	if err := e.backend.Store(ctx, doc); err != nil {
		e.logger.Error("save failed",
			zap.String("location", e.backend.Location()),
			zap.Error(err))
		return fmt.Errorf("save: %w", err)
	}
	e.logger.Debug("registry saved",
		zap.String("location", e.backend.Location()),
		zap.Int("records", len(doc)))
	return nil
}

// Reload populates the registry from the backend
func (e *Engine) Reload() error {
	return e.ReloadContext(context.Background())
}

// ReloadContext reads the stored document and restores it. A backend with
// nothing stored yet leaves the registry as it is.
func (e *Engine) ReloadContext(ctx context.Context) error {
	doc, err := e.backend.Load(ctx)
	if errors.Is(err, repository.ErrNotExist) {
		e.initialized = true
		e.logger.Info("no stored data, starting empty",
			zap.String("location", e.backend.Location()))
		return nil
	}
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}

	if err := e.Restore(doc); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	e.logger.Info("registry reloaded",
		zap.String("location", e.backend.Location()),
		zap.Int("records", len(doc)))
	e.logStoredCounts(ctx)
	return nil
}

// logStoredCounts reports per-kind totals when the backend can count them
func (e *Engine) logStoredCounts(ctx context.Context) {
	counter, ok := e.backend.(repository.KindCounter)
	if !ok {
		return
	}
	counts, err := counter.CountByKind(ctx)
	if err != nil {
		e.logger.Warn("count stored records failed", zap.Error(err))
		return
	}
	e.logger.Debug("stored records by kind", zap.Any("counts", counts))
}

// Restore rebuilds typed records from doc and registers them. The whole
// document is validated first; on any error the registry is untouched.
func (e *Engine) Restore(doc codec.Document) error {
	staged := make(map[string]domain.Record, len(doc))
	for _, key := range doc.Keys() {
		r, err := rehydrate(key, doc[key])
		if err != nil {
			return err
		}
		staged[key] = r
	}

	for key, r := range staged {
		r.Bind(e)
		e.objects[key] = r
	}
	e.initialized = true
	return nil
}

// rehydrate dispatches one stored record on its discriminator
func rehydrate(key string, attrs domain.Attributes) (domain.Record, error) {
	if attrs == nil {
		return nil, fmt.Errorf("%w: %s has no attributes", ErrMalformedDocument, key)
	}

	raw, ok := attrs[domain.AttrKind]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %s", ErrMalformedDocument, key, domain.AttrKind)
	}
	name, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s has a non-string %s", ErrMalformedDocument, key, domain.AttrKind)
	}
	kind, err := domain.ParseKind(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}

	r, err := domain.FromAttributes(kind, stripKind(attrs))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}

	if want := Key(r.Kind(), r.ID()); want != key {
		return nil, fmt.Errorf("%w: key %s does not match record %s", ErrMalformedDocument, key, want)
	}
	return r, nil
}

// stripKind copies attrs without the discriminator
func stripKind(attrs domain.Attributes) domain.Attributes {
	out := make(domain.Attributes, len(attrs))
	for k, v := range attrs {
		if k != domain.AttrKind {
			out[k] = v
		}
	}
	return out
}
