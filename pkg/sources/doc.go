// Package sources reads bookmark replicas from files and turns them into
// trees.
//
// Two formats are supported:
//
//   - Record documents (JSON or YAML): a list of sync records, each with an
//     id, a type, a parentid and, for folders, the ordered children. These
//     are ingested like a remote replica with BuildRemoteTree, which records
//     children and parentids as separate, possibly contradictory facts.
//   - XBEL files: an XML bookmark tree. They are read into records in
//     pre-order and ingested as trusted local data with BuildLocalTree.
//
// Trees can be written back out as XBEL or as a record document.
package sources
