package types

import "strings"

// rootName is the string form of the root scope.
const rootName = "root"

// Scope identifies the set of cards a display shows: the root level or the
// children of one folder.
type Scope struct {
	folderID string
}

// RootScope returns the scope of top-level cards.
func RootScope() Scope {
	return Scope{}
}

// FolderScope returns the scope of the cards inside the folder with the
// given id. An empty id yields the root scope.
func FolderScope(id string) Scope {
	return Scope{folderID: id}
}

// ParseScope converts a path segment into a Scope. Empty and "root" map to
// the root scope; anything else is a folder id.
func ParseScope(s string) Scope {
	s = strings.TrimSpace(s)
	if s == "" || s == rootName {
		return RootScope()
	}
	return FolderScope(s)
}

// IsReservedID reports whether id collides with the string form of the root
// scope and so cannot be used as a card id.
func IsReservedID(id string) bool {
	return strings.TrimSpace(id) == rootName
}

// IsRoot reports whether the scope is the root level.
func (s Scope) IsRoot() bool {
	return s.folderID == ""
}

// FolderID returns the folder id, or "" for the root scope.
func (s Scope) FolderID() string {
	return s.folderID
}

// ParentID returns the parent pointer shared by every card in the scope.
func (s Scope) ParentID() *string {
	return StringPtr(s.folderID)
}

func (s Scope) String() string {
	if s.IsRoot() {
		return rootName
	}
	return s.folderID
}
