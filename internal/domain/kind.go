package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	KindBaseModel Kind = "BaseModel"
	KindUser      Kind = "User"
	KindState     Kind = "State"
	KindCity      Kind = "City"
	KindAmenity   Kind = "Amenity"
	KindPlace     Kind = "Place"
	KindReview    Kind = "Review"
)

// kindTable is the closed set of known kinds, each mapped to a constructor
// for a blank instance. Nothing outside it can be created or reloaded.
var kindTable = map[Kind]func() Record{
	KindBaseModel: func() Record { return newBaseModel() },
	KindUser:      func() Record { return newUser() },
	KindState:     func() Record { return newState() },
	KindCity:      func() Record { return newCity() },
	KindAmenity:   func() Record { return newAmenity() },
	KindPlace:     func() Record { return newPlace() },
	KindReview:    func() Record { return newReview() },
}

// initializer is implemented by every kind through its embedded Base
type initializer interface {
	initialize(id string, now time.Time)
	rehydrate(attrs Attributes) error
}

// ParseKind validates a kind name against the known set
func ParseKind(name string) (Kind, error) {
	k := Kind(name)
	if _, ok := kindTable[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	return k, nil
}

// IsKnown reports whether k is in the known set
func (k Kind) IsKnown() bool {
	_, ok := kindTable[k]
	return ok
}

// Kinds returns every known kind, sorted by name
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindTable))
	for k := range kindTable {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// New constructs a fresh record of kind with a random id and both
// timestamps set to now. It does not register the record anywhere.
func New(kind Kind, now time.Time) (Record, error) {
	build, ok := kindTable[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	r := build()
	r.(initializer).initialize(uuid.NewString(), now)
	return r, nil
}

// FromAttributes rebuilds a record of kind from its persisted attributes.
// The discriminator must already be removed. Timestamps absent from attrs
// default to the current time; an absent id is an error.
func FromAttributes(kind Kind, attrs Attributes) (Record, error) {
	build, ok := kindTable[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	r := build()
	b := r.(initializer)
	b.initialize("", Now())
	if err := b.rehydrate(attrs); err != nil {
		return nil, fmt.Errorf("rehydrate %s: %w", kind, err)
	}
	return r, nil
}
