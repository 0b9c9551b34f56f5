package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScope(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantRoot   bool
		wantFolder string
		wantString string
	}{
		{name: "empty is root", in: "", wantRoot: true, wantString: "root"},
		{name: "root keyword", in: "root", wantRoot: true, wantString: "root"},
		{name: "folder id", in: "abc-123", wantFolder: "abc-123", wantString: "abc-123"},
		{name: "whitespace trimmed", in: "  f1 ", wantFolder: "f1", wantString: "f1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ParseScope(tt.in)
			assert.Equal(t, tt.wantRoot, s.IsRoot())
			assert.Equal(t, tt.wantFolder, s.FolderID())
			assert.Equal(t, tt.wantString, s.String())
		})
	}
}

func TestScopeParentID(t *testing.T) {
	assert.Nil(t, RootScope().ParentID())

	p := FolderScope("f1").ParentID()
	if assert.NotNil(t, p) {
		assert.Equal(t, "f1", *p)
	}
	assert.True(t, FolderScope("").IsRoot())
}

func TestIsReservedID(t *testing.T) {
	assert.True(t, IsReservedID("root"))
	assert.True(t, IsReservedID(" root "))
	assert.False(t, IsReservedID("Root"))
	assert.False(t, IsReservedID(""))
	assert.False(t, IsReservedID("f1"))
}
