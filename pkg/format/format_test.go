package format_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/drivebrowse/drivebrowse/pkg/dto"
	"github.com/drivebrowse/drivebrowse/pkg/format"
)

func TestIconFor(t *testing.T) {
	testCases := []struct {
		name     string
		fileName string
		expected string
	}{
		{name: "uppercase extension", fileName: "report.PDF", expected: "doctype:pdf"},
		{name: "word document", fileName: "notes.docx", expected: "doctype:word"},
		{name: "legacy word document", fileName: "notes.doc", expected: "doctype:word"},
		{name: "spreadsheet", fileName: "budget.xlsx", expected: "doctype:excel"},
		{name: "presentation", fileName: "deck.pptx", expected: "doctype:ppt"},
		{name: "plain text", fileName: "readme.txt", expected: "doctype:txt"},
		{name: "jpeg image", fileName: "photo.JPEG", expected: "doctype:image"},
		{name: "png image", fileName: "logo.png", expected: "doctype:image"},
		{name: "archive", fileName: "bundle.zip", expected: "doctype:zip"},
		{name: "no extension", fileName: "noext", expected: "doctype:unknown"},
		{name: "unknown extension", fileName: "data.parquet", expected: "doctype:unknown"},
		{name: "trailing dot", fileName: "weird.", expected: "doctype:unknown"},
		{name: "empty name", fileName: "", expected: "doctype:unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, format.IconFor(tc.fileName))
		})
	}
}

func TestHumanSize(t *testing.T) {
	testCases := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{name: "zero is empty", bytes: 0, expected: ""},
		{name: "negative is empty", bytes: -1, expected: ""},
		{name: "bytes", bytes: 512, expected: "512.0 Bytes"},
		{name: "kilobytes", bytes: 1536, expected: "1.5 KB"},
		{name: "megabytes", bytes: 5 * 1024 * 1024, expected: "5.0 MB"},
		{name: "gigabytes", bytes: 1073741824, expected: "1.0 GB"},
		{name: "clamped to GB", bytes: 1024 * 1073741824, expected: "1024.0 GB"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, format.HumanSize(tc.bytes))
		})
	}
}

func TestHumanDate(t *testing.T) {
	assert.Equal(t, "", format.HumanDate(time.Time{}))

	ts := time.Date(2024, time.March, 7, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "Mar 7, 2024", format.HumanDate(ts))
}

func TestDecorate(t *testing.T) {
	ts := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	entries := []dto.FileEntry{
		{ID: "1", Name: "Reports", IsFolder: true},
		{ID: "2", Name: "summary.pdf", Size: 1536, LastModified: ts},
	}

	decorated := format.Decorate(entries)

	// Folders carry no display fields.
	assert.Empty(t, decorated[0].IconName)
	assert.Empty(t, decorated[0].FormattedSize)
	assert.Empty(t, decorated[0].FormattedDate)

	assert.Equal(t, "doctype:pdf", decorated[1].IconName)
	assert.Equal(t, "1.5 KB", decorated[1].FormattedSize)
	assert.Equal(t, "Jan 15, 2024", decorated[1].FormattedDate)
}
