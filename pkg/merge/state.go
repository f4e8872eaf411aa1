// Package merge holds the output model of a two-tree bookmark merge: which
// side each merged item comes from, and why it must be uploaded. The merge
// decisions themselves are made by the caller.
package merge

import (
	"fmt"

	"github.com/arthur-debert/marktree/pkg/tree"
)

// UploadReason says why a merged item must be uploaded to the server
type UploadReason int

const (
	// UploadNone items are already up to date on the server
	UploadNone UploadReason = iota
	// UploadLocallyNew items only exist locally
	UploadLocallyNew
	// UploadMerged items changed locally or were merged from both sides
	UploadMerged
	// UploadNewStructure items keep their content but moved or had their
	// children changed by the merge
	UploadNewStructure
)

func (r UploadReason) String() string {
	switch r {
	case UploadNone:
		return "None"
	case UploadLocallyNew:
		return "LocallyNew"
	case UploadMerged:
		return "Merged"
	case UploadNewStructure:
		return "NewStructure"
	default:
		return fmt.Sprintf("UploadReason(%d)", int(r))
	}
}

// StateKind tags a MergeState with the sides that exist and the side that
// wins
type StateKind int

const (
	LocalOnly StateKind = iota
	RemoteOnly
	Local
	Remote
	RemoteOnlyWithNewStructure
	RemoteWithNewStructure
	Unchanged
)

var stateKindNames = [...]string{
	LocalOnly:                  "LocalOnly",
	RemoteOnly:                 "RemoteOnly",
	Local:                      "Local",
	Remote:                     "Remote",
	RemoteOnlyWithNewStructure: "RemoteOnlyWithNewStructure",
	RemoteWithNewStructure:     "RemoteWithNewStructure",
	Unchanged:                  "Unchanged",
}

func (k StateKind) String() string {
	if int(k) >= 0 && int(k) < len(stateKindNames) {
		return stateKindNames[k]
	}
	return fmt.Sprintf("StateKind(%d)", int(k))
}

// MergeState records which replica an item's value and structure come from.
// The *Only kinds carry a single side; the others carry both. The zero value
// is not meaningful; use the constructors.
type MergeState struct {
	kind   StateKind
	local  tree.Node
	remote tree.Node
}

// NewLocalOnly is an item that only exists locally
func NewLocalOnly(local tree.Node) MergeState {
	return MergeState{kind: LocalOnly, local: local}
}

// NewRemoteOnly is an item that only exists remotely
func NewRemoteOnly(remote tree.Node) MergeState {
	return MergeState{kind: RemoteOnly, remote: remote}
}

// NewLocal is an item on both sides where the local side wins
func NewLocal(local, remote tree.Node) MergeState {
	return MergeState{kind: Local, local: local, remote: remote}
}

// NewRemote is an item on both sides where the remote side wins
func NewRemote(local, remote tree.Node) MergeState {
	return MergeState{kind: Remote, local: local, remote: remote}
}

// NewUnchanged is an item that is identical on both sides
func NewUnchanged(local, remote tree.Node) MergeState {
	return MergeState{kind: Unchanged, local: local, remote: remote}
}

// Kind returns the state's tag
func (s MergeState) Kind() StateKind {
	return s.kind
}

// LocalNode returns the local side, if the item exists locally
func (s MergeState) LocalNode() (tree.Node, bool) {
	switch s.kind {
	case LocalOnly, Local, Remote, RemoteWithNewStructure, Unchanged:
		return s.local, true
	}
	return tree.Node{}, false
}

// RemoteNode returns the remote side, if the item exists remotely
func (s MergeState) RemoteNode() (tree.Node, bool) {
	switch s.kind {
	case RemoteOnly, Local, Remote, RemoteOnlyWithNewStructure, RemoteWithNewStructure, Unchanged:
		return s.remote, true
	}
	return tree.Node{}, false
}

// Node returns the winning side. Unchanged items use the local side.
func (s MergeState) Node() tree.Node {
	switch s.kind {
	case LocalOnly, Local, Unchanged:
		return s.local
	}
	return s.remote
}

// ShouldApply reports whether the remote value must be applied locally
func (s MergeState) ShouldApply() bool {
	switch s.kind {
	case RemoteOnly, Remote, RemoteOnlyWithNewStructure, RemoteWithNewStructure:
		return true
	}
	return false
}

// UploadReason returns why the item must be uploaded, or UploadNone
func (s MergeState) UploadReason() UploadReason {
	switch s.kind {
	case LocalOnly:
		return UploadLocallyNew
	case Local:
		return UploadMerged
	case RemoteOnlyWithNewStructure, RemoteWithNewStructure:
		return UploadNewStructure
	}
	return UploadNone
}

// WithNewStructure returns the state of an item whose children changed
// during the merge. Remote items must then be re-uploaded, and unchanged
// items are taken from the local side so the new structure is uploaded.
func (s MergeState) WithNewStructure() MergeState {
	switch s.kind {
	case RemoteOnly:
		return MergeState{kind: RemoteOnlyWithNewStructure, remote: s.remote}
	case Remote:
		return MergeState{kind: RemoteWithNewStructure, local: s.local, remote: s.remote}
	case Unchanged:
		return MergeState{kind: Local, local: s.local, remote: s.remote}
	}
	return s
}

// String returns the "(value, structure)" label used in merge logs
func (s MergeState) String() string {
	switch s.kind {
	case LocalOnly, Local:
		return "(Local, Local)"
	case RemoteOnly, Remote:
		return "(Remote, Remote)"
	case RemoteOnlyWithNewStructure, RemoteWithNewStructure:
		return "(Remote, New)"
	case Unchanged:
		return "(Unchanged, Unchanged)"
	}
	return s.kind.String()
}
