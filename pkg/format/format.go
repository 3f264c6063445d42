// Package format provides pure display formatting for file entries.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/drivebrowse/drivebrowse/pkg/dto"
)

// UnknownIcon is the icon used for files without a recognized extension.
const UnknownIcon = "doctype:unknown"

const bytesPerUnit = 1024

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

var iconByExt = map[string]string{
	"pdf":  "doctype:pdf",
	"doc":  "doctype:word",
	"docx": "doctype:word",
	"xls":  "doctype:excel",
	"xlsx": "doctype:excel",
	"ppt":  "doctype:ppt",
	"pptx": "doctype:ppt",
	"txt":  "doctype:txt",
	"jpg":  "doctype:image",
	"jpeg": "doctype:image",
	"png":  "doctype:image",
	"gif":  "doctype:image",
	"zip":  "doctype:zip",
}

// IconFor maps a file name to its doctype icon by extension,
// case-insensitive. Missing or unknown extensions map to UnknownIcon.
func IconFor(name string) string {
	lastDot := strings.LastIndex(name, ".")
	if lastDot == -1 || lastDot == len(name)-1 {
		return UnknownIcon
	}
	if icon, ok := iconByExt[strings.ToLower(name[lastDot+1:])]; ok {
		return icon
	}
	return UnknownIcon
}

// HumanSize renders a byte count with one decimal place and a unit from
// Bytes to GB. Zero or negative sizes render as the empty string.
func HumanSize(bytes int64) string {
	if bytes <= 0 {
		return ""
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(bytesPerUnit)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/math.Pow(bytesPerUnit, float64(i)), sizeUnits[i])
}

// HumanDate renders a timestamp as "Jan 2, 2006".
// The zero time renders as the empty string.
func HumanDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

// Decorate fills the display fields of the given entries in place.
// Folders carry no size or date derived fields.
func Decorate(entries []dto.FileEntry) []dto.FileEntry {
	for i := range entries {
		if entries[i].IsFolder {
			continue
		}
		entries[i].IconName = IconFor(entries[i].Name)
		entries[i].FormattedSize = HumanSize(entries[i].Size)
		entries[i].FormattedDate = HumanDate(entries[i].LastModified)
	}
	return entries
}
