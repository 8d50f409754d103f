package pipeconf

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// JoinResult describes one JoinDir run.
type JoinResult struct {
	OutputFile string
	// Files are the stanza file names read, in join order.
	Files   []string
	Content string
	Result  Result
}

// ListStanzaFiles returns the stanza file names in inputDir in join order:
// canonical kind order, then numeric sequence, then name. Files whose prefix is not
// a stanza kind are skipped.
func ListStanzaFiles(inputDir string) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fileError("read dir", inputDir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return OrderStanzaFileNames(names), nil
}

// OrderStanzaFileNames drops names that are not stanza files and returns the rest in
// join order.
func OrderStanzaFileNames(names []string) []string {
	infos := make([]StanzaFileInfo, 0, len(names))
	for _, name := range names {
		info, ok := ParseStanzaFileName(name)
		if !ok {
			continue
		}
		infos = append(infos, info)
	}
	sort.SliceStable(infos, func(i, j int) bool { return lessStanzaFile(infos[i], infos[j]) })

	out := make([]string, 0, len(infos))
	for _, info := range infos {
		out = append(out, info.Name)
	}
	return out
}

// JoinBlocks renders stanza bodies in canonical kind order. Bodies of one kind are
// separated by a blank line, and so are the per-kind groups. Kinds without bodies
// are omitted.
func JoinBlocks(bodies map[Kind][]string) string {
	groups := make([]string, 0, len(Kinds))
	for _, k := range Kinds {
		if len(bodies[k]) == 0 {
			continue
		}
		groups = append(groups, strings.Join(bodies[k], "\n\n"))
	}
	return strings.Join(groups, "\n\n")
}

// ReadStanzaDir reads the stanza files of inputDir and returns the trimmed bodies per
// kind together with the file names in join order.
func ReadStanzaDir(inputDir string) (map[Kind][]string, []string, error) {
	names, err := ListStanzaFiles(inputDir)
	if err != nil {
		return nil, nil, err
	}
	bodies := map[Kind][]string{}
	for _, name := range names {
		info, _ := ParseStanzaFileName(name)
		path := filepath.Join(inputDir, name)
		// #nosec G304 -- path is discovered under a user-specified input dir.
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fileError("read", path, err)
		}
		bodies[info.Kind] = append(bodies[info.Kind], strings.TrimSpace(string(b)))
	}
	return bodies, names, nil
}

// JoinDir recomposes the stanza files of inputDir into outputFile, overwriting it,
// and validates the file it wrote.
func JoinDir(inputDir, outputFile string) (JoinResult, error) {
	bodies, names, err := ReadStanzaDir(inputDir)
	if err != nil {
		return JoinResult{}, err
	}
	content := JoinBlocks(bodies)
	if err := os.WriteFile(outputFile, []byte(content), 0o600); err != nil {
		return JoinResult{}, fileError("write", outputFile, err)
	}
	return JoinResult{
		OutputFile: outputFile,
		Files:      names,
		Content:    content,
		Result:     ValidateFile(outputFile),
	}, nil
}
