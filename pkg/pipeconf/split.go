package pipeconf

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

var stanzaStartPattern = regexp.MustCompile(`^(input|filter|output)\b`)

// splitter holds the state of one split run.
type splitter struct {
	current  Kind
	buf      strings.Builder
	counters map[Kind]int
	blocks   []StanzaBlock
}

func newSplitter() *splitter {
	return &splitter{counters: map[Kind]int{}}
}

// feed takes one raw line including its terminator.
func (s *splitter) feed(line string) {
	if m := stanzaStartPattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
		s.flush()
		s.current = Kind(m[1])
		s.buf.Reset()
		s.buf.WriteString(line)
		return
	}
	if s.current != "" {
		s.buf.WriteString(line)
	}
}

func (s *splitter) flush() {
	if s.current == "" {
		return
	}
	s.blocks = append(s.blocks, StanzaBlock{
		Kind: s.current,
		Seq:  s.counters[s.current],
		Body: strings.TrimRightFunc(s.buf.String(), unicode.IsSpace),
	})
	s.counters[s.current]++
}

// SplitReader cuts a config into stanza blocks. Lines before the first stanza
// keyword belong to no block and are dropped. Any other leading keyword stays in the
// block that is currently open.
func SplitReader(r io.Reader) ([]StanzaBlock, error) {
	s := newSplitter()
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			s.feed(line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
	}
	s.flush()
	return s.blocks, nil
}

func SplitText(text string) []StanzaBlock {
	blocks, _ := SplitReader(strings.NewReader(text))
	return blocks
}

// SplitFile splits sourcePath and writes one `<kind>_<n>.conf` file per block into
// outputDir, creating it if needed. It returns the written paths in write order.
// Files written before a failure are left in place.
func SplitFile(sourcePath, outputDir string) ([]string, error) {
	// #nosec G304 -- splitting reads a user-specified path by design.
	f, err := os.Open(sourcePath)
	if err != nil {
		return nil, fileError("open", sourcePath, err)
	}
	defer func() { _ = f.Close() }()
	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return nil, fileError("create output dir", outputDir, err)
	}

	blocks, err := SplitReader(f)
	if err != nil {
		return nil, fileError("read", sourcePath, err)
	}
	written := make([]string, 0, len(blocks))
	for _, b := range blocks {
		target := filepath.Join(outputDir, b.FileName())
		if err := os.WriteFile(target, []byte(b.Body), 0o600); err != nil {
			return written, fileError("write", target, err)
		}
		written = append(written, target)
	}
	return written, nil
}
