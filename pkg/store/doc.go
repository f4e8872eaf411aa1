// Package store persists the local bookmark replica in a SQLite database.
//
// The whole tree is saved at once, replacing whatever was stored before.
// Items keep their pre-order sequence, so loading them back through
// sources.BuildLocalTree sees every parent before its children. Tombstones
// live in their own table next to the items.
package store
