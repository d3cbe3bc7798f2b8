package organizer

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"

	"github.com/devicelab-dev/screenpull/pkg/screenshot"
)

// Index file names, written at the output root. Both are regenerated
// in full on every organizer run.
const (
	IndexFileName = "index.json"
	HTMLFileName  = "index.html"
)

// Index is the structured listing of every organized screenshot:
// runs, their tests, and each test's steps in ascending step order.
// It carries no generation timestamp, so organizing the same input
// twice produces byte-identical index files.
type Index struct {
	Runs []RunEntry `json:"runs"`
}

// RunEntry lists the tests captured during one session.
type RunEntry struct {
	Session string      `json:"session"`
	Tests   []TestEntry `json:"tests"`
}

// TestEntry lists the step screenshots of one test case.
type TestEntry struct {
	Name  string      `json:"name"`
	Steps []StepEntry `json:"steps"`
}

// StepEntry references one organized screenshot by its path relative
// to the output root.
type StepEntry struct {
	Step        int    `json:"step"`
	Description string `json:"description"`
	Path        string `json:"path"`
}

type organizedFile struct {
	record  screenshot.Record
	relPath string
}

// buildIndex groups organized files into the run/test/step tree.
// Steps are ordered by their numeric step field with a stable sort,
// independent of the order files were processed in.
func buildIndex(files []organizedFile) *Index {
	byRun := make(map[string]map[string][]StepEntry)
	for _, f := range files {
		tests := byRun[f.record.Session]
		if tests == nil {
			tests = make(map[string][]StepEntry)
			byRun[f.record.Session] = tests
		}
		tests[f.record.TestName] = append(tests[f.record.TestName], StepEntry{
			Step:        f.record.Step,
			Description: f.record.Description,
			Path:        filepath.ToSlash(f.relPath),
		})
	}

	index := &Index{Runs: []RunEntry{}}
	for session, tests := range byRun {
		run := RunEntry{Session: session}
		for name, steps := range tests {
			sort.SliceStable(steps, func(i, j int) bool {
				return steps[i].Step < steps[j].Step
			})
			run.Tests = append(run.Tests, TestEntry{Name: name, Steps: steps})
		}
		sort.Slice(run.Tests, func(i, j int) bool {
			return run.Tests[i].Name < run.Tests[j].Name
		})
		index.Runs = append(index.Runs, run)
	}
	sort.Slice(index.Runs, func(i, j int) bool {
		return index.Runs[i].Session < index.Runs[j].Session
	})

	return index
}

// writeIndex writes index.json and index.html at the output root,
// overwriting any prior index.
func writeIndex(outputRoot string, index *Index) error {
	if err := os.MkdirAll(outputRoot, 0o755); err != nil {
		return err
	}
	if err := atomicWriteJSON(filepath.Join(outputRoot, IndexFileName), index); err != nil {
		return err
	}
	return generateHTML(filepath.Join(outputRoot, HTMLFileName), index)
}

// atomicWriteJSON writes v as indented JSON via a temp file + rename,
// so a reader never sees a half-written index.
func atomicWriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

var htmlTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Screenshot Index</title>
<style>
  body { font-family: -apple-system, sans-serif; margin: 2em; color: #222; }
  h2 { border-bottom: 1px solid #ddd; padding-bottom: 4px; }
  .steps { display: flex; flex-wrap: wrap; gap: 12px; }
  .step { text-align: center; font-size: 13px; }
  .step img { max-height: 240px; border: 1px solid #ccc; border-radius: 4px; }
</style>
</head>
<body>
<h1>Screenshot Index</h1>
{{range .Runs}}
<h2>Run {{.Session}}</h2>
{{range .Tests}}
<h3>{{.Name}}</h3>
<div class="steps">
{{range .Steps}}
  <div class="step">
    <a href="{{.Path}}"><img src="{{.Path}}" alt="{{.Description}}"></a>
    <div>Step {{.Step}}: {{.Description}}</div>
  </div>
{{end}}
</div>
{{end}}
{{end}}
</body>
</html>
`))

// generateHTML renders the static index viewer.
func generateHTML(path string, index *Index) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := htmlTemplate.Execute(f, index); err != nil {
		f.Close()
		return fmt.Errorf("render index.html: %w", err)
	}
	return f.Close()
}
