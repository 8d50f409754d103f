package pipeconf

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

type Kind string

const (
	KindInput  Kind = "input"
	KindFilter Kind = "filter"
	KindOutput Kind = "output"
)

// StanzaExt is the extension of files written by SplitFile and read by JoinDir.
const StanzaExt = ".conf"

// Kinds lists the stanza kinds in canonical output order.
var Kinds = []Kind{KindInput, KindFilter, KindOutput}

func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindInput, KindFilter, KindOutput:
		return Kind(s), true
	default:
		return "", false
	}
}

func (k Kind) order() int {
	for i, v := range Kinds {
		if v == k {
			return i
		}
	}
	return len(Kinds)
}

// StanzaBlock is one contiguous stanza taken from a source config.
// Seq counts blocks of the same kind from zero.
type StanzaBlock struct {
	Kind Kind
	Seq  int
	Body string
}

func (b StanzaBlock) FileName() string {
	return StanzaFileName(b.Kind, b.Seq)
}

func StanzaFileName(kind Kind, seq int) string {
	return fmt.Sprintf("%s_%d%s", kind, seq, StanzaExt)
}

// StanzaFileInfo describes a stanza file name split into its parts.
// Seq is -1 when the suffix after the first '_' is not a decimal number.
type StanzaFileInfo struct {
	Name string
	Kind Kind
	Seq  int
}

// ParseStanzaFileName extracts the kind prefix (text before the first '_') and the
// numeric sequence from a `<kind>_<n>.conf` name. ok is false when the name lacks the
// extension or the separator, or the prefix is not a known kind.
func ParseStanzaFileName(name string) (StanzaFileInfo, bool) {
	base := filepath.Base(name)
	if !strings.HasSuffix(base, StanzaExt) {
		return StanzaFileInfo{}, false
	}
	stem := strings.TrimSuffix(base, StanzaExt)
	prefix, rest, found := strings.Cut(stem, "_")
	if !found {
		return StanzaFileInfo{}, false
	}
	kind, ok := ParseKind(prefix)
	if !ok {
		return StanzaFileInfo{}, false
	}
	seq := -1
	if n, err := strconv.Atoi(rest); err == nil && n >= 0 && !strings.HasPrefix(rest, "+") {
		seq = n
	}
	return StanzaFileInfo{Name: base, Kind: kind, Seq: seq}, true
}

// lessStanzaFile orders by canonical kind, then numeric sequence, then name.
// Names without a numeric sequence sort after numbered ones of the same kind.
func lessStanzaFile(a, b StanzaFileInfo) bool {
	if a.Kind != b.Kind {
		return a.Kind.order() < b.Kind.order()
	}
	if (a.Seq < 0) != (b.Seq < 0) {
		return a.Seq >= 0
	}
	if a.Seq != b.Seq {
		return a.Seq < b.Seq
	}
	return a.Name < b.Name
}
