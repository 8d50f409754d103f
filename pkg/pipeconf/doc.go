// Package pipeconf validates and restructures pipeline configuration files made of
// input, filter and output stanzas.
//
// # Public API surface (intended for reuse)
//
//   - Validation:
//
//   - Validate, ValidateFile
//
//   - Result, Finding, Severity
//
//   - Stanza files:
//
//   - SplitReader, SplitText, SplitFile
//
//   - ListStanzaFiles, OrderStanzaFileNames, ReadStanzaDir, JoinBlocks, JoinDir
//
//   - Kind, StanzaBlock, StanzaFileName, ParseStanzaFileName
//
// # Scanning model
//
// Nothing here parses the config language. Identifier detection and brace counting
// are line and character level scans over the raw text: braces inside quoted strings
// or comments are counted, and nested plugin blocks are not tracked. Stanza
// boundaries are lines whose trimmed text starts with one of the three stanza
// keywords.
//
// # File organization
//
//   - finding.go, occurrence_index.go: validation data model.
//   - validate.go: the check battery.
//   - stanza.go: stanza kinds and file naming.
//   - split.go, join.go: decomposition and recomposition.
package pipeconf
