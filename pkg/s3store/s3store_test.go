package s3store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseName(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{key: "docs/report.pdf", expected: "report.pdf"},
		{key: "report.pdf", expected: "report.pdf"},
		{key: "docs/archive/", expected: "archive"},
		{key: "docs/", expected: "docs"},
		{key: "", expected: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, baseName(tt.key), "key %q", tt.key)
	}
}

func TestParentPrefix(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{key: "docs/archive/report.pdf", expected: "docs/archive/"},
		{key: "docs/report.pdf", expected: "docs/"},
		{key: "report.pdf", expected: ""},
		{key: "docs/archive/", expected: "docs/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, parentPrefix(tt.key), "key %q", tt.key)
	}
}

func TestRootSentinelRoundTrip(t *testing.T) {
	assert.Equal(t, rootItemID, folderItemID(""))
	assert.Equal(t, "docs/", folderItemID("docs/"))
	assert.Equal(t, "", normalizeKey(rootItemID))
	assert.Equal(t, "docs/", normalizeKey("docs/"))
}
