package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	errs "github.com/matzehuels/vankampen/pkg/errors"
	"github.com/matzehuels/vankampen/pkg/pipeline"
)

// basePath returns the output path without extension. An explicit output
// loses a known format extension; otherwise the path derives from input.
func basePath(output, input string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	return stem(input) + "-diagram"
}

// stem strips the extension from input, or returns "vankampen" when there is
// no input file.
func stem(input string) string {
	if input == "" || input == "-" {
		return appName
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// documentBase is basePath for inputs that already hold a diagram document.
func documentBase(output, input string) string {
	if output != "" {
		return basePath(output, input)
	}
	return stem(input)
}

// artifactPath returns the file for format under base. A single format keeps
// an explicit output path exactly as given.
func artifactPath(output, base, format string, formats int) string {
	if output != "" && formats == 1 && filepath.Ext(output) != "" {
		return output
	}
	return base + "." + format
}

// partPath returns the file for one split component.
func partPath(base string, index int, format string) string {
	return fmt.Sprintf("%s-part-%d.%s", base, index, format)
}

// circuitPath returns where the boundary word is written.
func circuitPath(circuitOutput, input string) string {
	if circuitOutput != "" {
		return circuitOutput
	}
	return stem(input) + "-circuit.txt"
}

// writeArtifacts writes every rendered artifact and returns the paths in
// format order.
func writeArtifacts(artifacts map[string][]byte, path func(format string) string) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		p := path(f)
		if err := errs.ValidateOutputPath(p); err != nil {
			return paths, err
		}
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(p, artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// writeParts writes every split component next to base and returns the
// written paths keyed by component index.
func writeParts(parts []pipeline.Part, base string) (map[int][]string, error) {
	files := make(map[int][]string, len(parts))
	for _, p := range parts {
		paths, err := writeArtifacts(p.Artifacts, func(f string) string { return partPath(base, p.Index, f) })
		if err != nil {
			return files, err
		}
		files[p.Index] = paths
	}
	return files, nil
}

// readInput reads the presentation from path, or stdin for "-".
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", errs.New(errs.ErrCodeFileNotFound, "input file not found: %s", path)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
