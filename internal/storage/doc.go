// Package storage implements the persistence engine of the hbnb object
// store.
//
// An Engine owns the registry: a map from composite key "<Kind>.<id>" to the
// live domain.Record. Records created through the engine are registered and
// bound to it, so calling Save on any record flushes the entire registry to
// the engine's repository.Backend.
//
// On startup Reload reads the stored document back. Each stored record names
// its kind in the discriminator field; the kind is looked up in the closed
// table in package domain and the record is rebuilt through that kind's
// constructor. An unknown kind, a malformed timestamp or a malformed document
// fails the whole reload and leaves the registry as it was. A backend with
// nothing stored is an empty store, not an error.
package storage
