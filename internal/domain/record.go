package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// TimeFormat is the canonical textual form of record timestamps.
const TimeFormat = "2006-01-02T15:04:05.000000"

// Reserved attribute names
const (
	AttrID        = "id"
	AttrCreatedAt = "created_at"
	AttrUpdatedAt = "updated_at"

	// AttrKind is the discriminator written into every serialized record.
	// It is never a live attribute.
	AttrKind = "__class__"
)

var (
	ErrUnknownKind        = errors.New("unknown kind")
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	ErrReservedAttribute  = errors.New("reserved attribute")
	ErrInvalidValue       = errors.New("invalid attribute value")
	ErrMissingID          = errors.New("missing record id")
	ErrDetached           = errors.New("record is not bound to a store")
)

// Attributes is the flat, serializable view of a record
type Attributes map[string]any

// Saver persists every record it owns. The storage engine implements it.
type Saver interface {
	Save() error
}

// Record is the capability set shared by every kind: identity, timestamp
// tracking, serialization and save.
type Record interface {
	Kind() Kind
	ID() string
	CreatedAt() time.Time
	UpdatedAt() time.Time

	Get(name string) (any, bool)
	Set(name string, value any) error
	ToAttributes() Attributes

	// Touch refreshes updated_at without persisting.
	Touch(now time.Time)
	Save() error
	Bind(owner Saver)

	String() string
}

// Base is the behavior block embedded by every kind. Its zero value is not
// usable; kinds construct it with newBase.
type Base struct {
	schema    *Schema
	id        string
	createdAt time.Time
	updatedAt time.Time
	attrs     Attributes
	owner     Saver
	clock     func() time.Time
}

func newBase(schema *Schema) Base {
	b := Base{
		schema: schema,
		attrs:  make(Attributes, len(schema.Fields)),
		clock:  Now,
	}
	for _, f := range schema.Fields {
		b.attrs[f.Name] = f.Type.zero()
	}
	return b
}

// Now returns the current time in the resolution records keep.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// initialize assigns a fresh identity and stamps both timestamps
func (b *Base) initialize(id string, now time.Time) {
	now = now.UTC().Truncate(time.Microsecond)
	b.id = id
	b.createdAt = now
	b.updatedAt = now
}

// rehydrate assigns persisted attributes onto the record. The discriminator
// must already be stripped by the caller. A record carrying only one
// timestamp gets it for both; updated_at before created_at is malformed.
func (b *Base) rehydrate(attrs Attributes) error {
	var created, updated bool
	for name, value := range attrs {
		switch name {
		case AttrID:
			id, ok := value.(string)
			if !ok || id == "" {
				return fmt.Errorf("%w: %v", ErrMissingID, value)
			}
			b.id = id
		case AttrCreatedAt:
			t, err := ParseTime(value)
			if err != nil {
				return fmt.Errorf("%s: %w", AttrCreatedAt, err)
			}
			b.createdAt = t
			created = true
		case AttrUpdatedAt:
			t, err := ParseTime(value)
			if err != nil {
				return fmt.Errorf("%s: %w", AttrUpdatedAt, err)
			}
			b.updatedAt = t
			updated = true
		case AttrKind:
			return fmt.Errorf("%w: %s", ErrReservedAttribute, AttrKind)
		default:
			if err := b.setAttr(name, value); err != nil {
				return err
			}
		}
	}
	if b.id == "" {
		return ErrMissingID
	}

	switch {
	case created && !updated:
		b.updatedAt = b.createdAt
	case updated && !created:
		b.createdAt = b.updatedAt
	case b.updatedAt.Before(b.createdAt):
		return fmt.Errorf("%w: %s %s is before %s %s", ErrMalformedTimestamp,
			AttrUpdatedAt, FormatTime(b.updatedAt), AttrCreatedAt, FormatTime(b.createdAt))
	}
	return nil
}

// ParseTime parses a timestamp in TimeFormat. Anything else, including a
// non-string value, is an ErrMalformedTimestamp.
func ParseTime(value any) (time.Time, error) {
	s, ok := value.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedTimestamp, value)
	}
	t, err := time.Parse(TimeFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	return t, nil
}

// FormatTime renders t in TimeFormat
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// Kind returns the record's kind
func (b *Base) Kind() Kind {
	return b.schema.Kind
}

// ID returns the record's identifier
func (b *Base) ID() string {
	return b.id
}

// CreatedAt returns the creation time
func (b *Base) CreatedAt() time.Time {
	return b.createdAt
}

// UpdatedAt returns the time of the last save
func (b *Base) UpdatedAt() time.Time {
	return b.updatedAt
}

// Get returns a kind-specific or extra attribute
func (b *Base) Get(name string) (any, bool) {
	v, ok := b.attrs[name]
	return v, ok
}

// Set assigns an attribute, coercing it to the declared field type
func (b *Base) Set(name string, value any) error {
	if isReserved(name) {
		return fmt.Errorf("%w: %s", ErrReservedAttribute, name)
	}
	return b.setAttr(name, value)
}

func (b *Base) setAttr(name string, value any) error {
	if f, ok := b.schema.Field(name); ok {
		v, err := f.Type.coerce(value)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", b.schema.Kind, name, err)
		}
		b.attrs[name] = v
		return nil
	}
	v, err := normalizeExtra(value)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", b.schema.Kind, name, err)
	}
	b.attrs[name] = v
	return nil
}

func (b *Base) stringAttr(name string) string {
	s, _ := b.attrs[name].(string)
	return s
}

func (b *Base) intAttr(name string) int {
	n, _ := b.attrs[name].(int)
	return n
}

func (b *Base) floatAttr(name string) float64 {
	f, _ := b.attrs[name].(float64)
	return f
}

func (b *Base) listAttr(name string) []string {
	l, _ := b.attrs[name].([]string)
	return l
}

// Touch refreshes updated_at. It never moves backwards.
func (b *Base) Touch(now time.Time) {
	now = now.UTC().Truncate(time.Microsecond)
	if now.Before(b.updatedAt) {
		now = b.updatedAt
	}
	b.updatedAt = now
}

// Bind attaches the record to the store that persists it
func (b *Base) Bind(owner Saver) {
	b.owner = owner
}

// Save refreshes updated_at and asks the owning store to persist everything
func (b *Base) Save() error {
	if b.owner == nil {
		return ErrDetached
	}
	b.Touch(b.clock())
	return b.owner.Save()
}

// ToAttributes returns the serializable form, discriminator included
func (b *Base) ToAttributes() Attributes {
	out := make(Attributes, len(b.attrs)+4)
	for k, v := range b.attrs {
		if l, ok := v.([]string); ok {
			v = append([]string{}, l...)
		}
		out[k] = v
	}
	out[AttrID] = b.id
	out[AttrCreatedAt] = FormatTime(b.createdAt)
	out[AttrUpdatedAt] = FormatTime(b.updatedAt)
	out[AttrKind] = string(b.schema.Kind)
	return out
}

// String renders "[Kind] (id) {attributes}" for display
func (b *Base) String() string {
	attrs := b.ToAttributes()
	delete(attrs, AttrKind)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(attrs); err != nil {
		return fmt.Sprintf("[%s] (%s) %v", b.schema.Kind, b.id, map[string]any(attrs))
	}
	return fmt.Sprintf("[%s] (%s) %s", b.schema.Kind, b.id, bytes.TrimSpace(buf.Bytes()))
}

func isReserved(name string) bool {
	switch name {
	case AttrID, AttrCreatedAt, AttrUpdatedAt, AttrKind:
		return true
	}
	return false
}
