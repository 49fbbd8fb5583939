// Package domain defines the records kept by the hbnb object store.
//
// Every stored entity is a Record: a generated identifier, creation and
// last-modified timestamps, and a flat set of kind-specific attributes.
//
// # Kinds
//
// The set of kinds is closed: BaseModel, User, State, City, Amenity, Place
// and Review. Each kind embeds Base, which carries identity, timestamps,
// serialization and save, and declares its own attribute table (Schema).
// Kinds are looked up by name through a static table; anything outside it
// is rejected with ErrUnknownKind.
//
// # Serialized Form
//
// ToAttributes produces the map that is written to disk. It contains every
// attribute, both timestamps rendered in TimeFormat, and the discriminator
// AttrKind naming the kind. FromAttributes is the inverse: it strips
// nothing itself, so callers remove the discriminator before handing the
// map over.
//
// # Design Principles
//
// - No storage or I/O dependencies
// - One shared behavior block, one attribute table per kind
// - Round-trip fidelity between ToAttributes and FromAttributes
package domain
