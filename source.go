package tconf

import "github.com/ravendot/tconf/internal/sourceloader"

// Format names a recognized configuration file format (spec §6).
type Format = sourceloader.Format

const (
	FormatJSON = sourceloader.FormatJSON
	FormatYAML = sourceloader.FormatYAML
	FormatINI  = sourceloader.FormatINI
)

type sourceKind int

const (
	sourceKindFile sourceKind = iota
	sourceKindInline
)

// Source is a source descriptor (spec §3): a tagged value of FilePath,
// FileRecord, or Inline. Build one with FilePath, FileRecord, or Inline.
type Source struct {
	kind   sourceKind
	record sourceloader.Record
	inline map[string]any
}

// FilePath builds a Source from a path alone; its format is inferred from
// the extension (spec §3's *FilePath* variant).
func FilePath(path string) Source {
	return Source{kind: sourceKindFile, record: sourceloader.Record{Path: path}}
}

// FileRecord builds a Source with an explicit format and/or optionality
// (spec §3's *FileRecord* variant). Format may be left empty to infer it
// from the path's extension.
func FileRecord(path string, format Format, optional bool) Source {
	return Source{kind: sourceKindFile, record: sourceloader.Record{Path: path, Format: format, Optional: optional}}
}

// Inline builds a Source from a plain key-value tree supplied directly by
// the caller (spec §3's *Inline* variant). v is cloned defensively.
func Inline(v map[string]any) Source {
	return Source{kind: sourceKindInline, inline: sourceloader.LoadInline(v)}
}
