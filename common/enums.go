// Package common keeps enums shared between configuration and command
// implementations so that neither has to import the other.
package common

import (
	"fmt"
	"strings"
)

// Specification of requested export format.
// ENUM(full, fragment, clipboard, inline, css)
type ExportFmt int

const (
	// ExportFmtFull is a standalone HTML document with embedded stylesheet.
	ExportFmtFull ExportFmt = iota
	// ExportFmtFragment is the themed article wrapper alone, no stylesheet.
	ExportFmtFragment
	// ExportFmtClipboard is a <style> block followed by the article wrapper.
	ExportFmtClipboard
	// ExportFmtInline is article HTML with all presentation inlined per element.
	ExportFmtInline
	// ExportFmtCSS is the synthesized stylesheet text alone.
	ExportFmtCSS
)

var exportFmtNames = []string{"full", "fragment", "clipboard", "inline", "css"}

func (f ExportFmt) String() string {
	if f < 0 || int(f) >= len(exportFmtNames) {
		// this should never happen
		panic("unsupported format requested")
	}
	return exportFmtNames[f]
}

// Ext returns file extension suitable for the format.
func (f ExportFmt) Ext() string {
	if f == ExportFmtCSS {
		return ".css"
	}
	return ".html"
}

// ParseExportFmt converts textual format name to ExportFmt.
func ParseExportFmt(name string) (ExportFmt, error) {
	for i, n := range exportFmtNames {
		if strings.EqualFold(name, n) {
			return ExportFmt(i), nil
		}
	}
	return ExportFmtFull, fmt.Errorf("unknown export format %q", name)
}

// ExportFmtNames returns all supported format names in declaration order.
func ExportFmtNames() []string {
	out := make([]string, len(exportFmtNames))
	copy(out, exportFmtNames)
	return out
}

// Editing surface view mode, persisted across sessions for the web UI.
// ENUM(split, edit, preview)
type ViewMode int

const (
	ViewModeSplit ViewMode = iota
	ViewModeEdit
	ViewModePreview
)

var viewModeNames = []string{"split", "edit", "preview"}

func (v ViewMode) String() string {
	if v < 0 || int(v) >= len(viewModeNames) {
		return viewModeNames[ViewModeSplit]
	}
	return viewModeNames[v]
}

// ParseViewMode converts textual view mode to ViewMode. Unknown values
// fall back to split - persisted state must never fail a startup.
func ParseViewMode(name string) ViewMode {
	for i, n := range viewModeNames {
		if strings.EqualFold(name, n) {
			return ViewMode(i)
		}
	}
	return ViewModeSplit
}

// ViewModeNames returns all supported view mode names in declaration order.
func ViewModeNames() []string {
	out := make([]string, len(viewModeNames))
	copy(out, viewModeNames)
	return out
}
