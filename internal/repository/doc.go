// Package repository defines where the hbnb object store keeps its data.
//
// The storage engine serializes its whole registry into a codec.Document
// and hands it to a Backend; on startup it asks the Backend for the last
// stored document. Backends never see live records.
//
// # File Backend
//
// The file subpackage keeps the document as one JSON file. Writes go to a
// temporary file in the same directory which is synced and renamed over
// the target, so a failed save leaves the previous file intact. A missing
// file loads as ErrNotExist.
//
// # SQLite Backend
//
// The sqlite subpackage keeps one row per record and replaces all rows in a
// single transaction. It exists for deployments that already manage a
// SQLite database; the document it returns is identical to the file
// backend's.
//
// # Limitations
//
// Neither backend locks against other processes. Two writers racing on the
// same location end with whichever stored last.
package repository
