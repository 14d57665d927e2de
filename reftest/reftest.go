// Package reftest provides a harness for running reference tests in
// the WPT style against this engine: a test page declares a reference
// page via <link rel="match"> (or rel="mismatch"), both pages run
// through the full pipeline, and the test passes when their display
// lists agree (or, for mismatch, disagree).
//
// See: https://web-platform-tests.org/writing-tests/reftests.html
package reftest

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/wren-browser/wren/displaylist"
	"github.com/wren-browser/wren/engine"
)

// Result is the outcome of a single reftest.
type Result struct {
	TestFile      string
	ReferenceFile string
	RelationType  string // "match" or "mismatch"
	Status        Status
	Message       string
}

// Status classifies a test outcome.
type Status int

const (
	// Pass indicates the test passed.
	Pass Status = iota
	// Fail indicates the rendered output did not satisfy the relation.
	Fail
	// Error indicates the harness could not run the test.
	Error
	// Skip indicates the file declared no reference link.
	Skip
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	case Error:
		return "ERROR"
	case Skip:
		return "SKIP"
	default:
		return "UNKNOWN"
	}
}

// Summary aggregates the results of a test run.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Errors  int
	Skipped int
	Results []Result
}

// PassRate returns the percentage of non-skipped tests that passed.
func (s *Summary) PassRate() float64 {
	run := s.Total - s.Skipped
	if run == 0 {
		return 0
	}
	return float64(s.Passed) / float64(run) * 100
}

// Runner executes reftests rooted at a base directory.
type Runner struct {
	BaseDir string
	Verbose bool
}

// NewRunner creates a Runner for tests under baseDir.
func NewRunner(baseDir string, verbose bool) *Runner {
	return &Runner{BaseDir: baseDir, Verbose: verbose}
}

// matchLinkRe finds <link rel="match|mismatch" href="..."> in either
// attribute order.
var matchLinkRe = regexp.MustCompile(
	`(?is)<link[^>]*rel=["'](match|mismatch)["'][^>]*href=["']([^"']+)["']|<link[^>]*href=["']([^"']+)["'][^>]*rel=["'](match|mismatch)["']`)

// findReferenceLink extracts the reference relation and resolved path
// from a test page's markup.
func findReferenceLink(html, testPath string) (rel, refPath string, ok bool) {
	m := matchLinkRe.FindStringSubmatch(html)
	if m == nil {
		return "", "", false
	}
	if m[1] != "" {
		rel, refPath = m[1], m[2]
	} else {
		rel, refPath = m[4], m[3]
	}
	return strings.ToLower(rel), filepath.Join(filepath.Dir(testPath), refPath), true
}

// RunTest runs the reftest at testPath.
func (r *Runner) RunTest(testPath string) Result {
	result := Result{TestFile: testPath}

	testHTML, err := os.ReadFile(testPath)
	if err != nil {
		result.Status = Error
		result.Message = fmt.Sprintf("reading test: %v", err)
		return result
	}

	rel, refPath, ok := findReferenceLink(string(testHTML), testPath)
	if !ok {
		result.Status = Skip
		result.Message = "no reference link"
		return result
	}
	result.RelationType = rel
	result.ReferenceFile = refPath

	refHTML, err := os.ReadFile(refPath)
	if err != nil {
		result.Status = Error
		result.Message = fmt.Sprintf("reading reference: %v", err)
		return result
	}

	same := Equivalent(
		render(string(testHTML), testPath),
		render(string(refHTML), refPath),
	)

	switch {
	case rel == "match" && same, rel == "mismatch" && !same:
		result.Status = Pass
	case rel == "match":
		result.Status = Fail
		result.Message = "display lists differ"
	default:
		result.Status = Fail
		result.Message = "display lists identical but rel=mismatch"
	}
	return result
}

// RunDirectory runs every reftest under dir (files with a reference
// link; reference pages themselves are skipped).
func (r *Runner) RunDirectory(dir string) Summary {
	var summary Summary
	_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".html" && ext != ".htm" && ext != ".xht" {
			return nil
		}
		if strings.Contains(filepath.Base(path), "-ref") {
			return nil
		}
		result := r.RunTest(path)
		summary.Total++
		switch result.Status {
		case Pass:
			summary.Passed++
		case Fail:
			summary.Failed++
		case Error:
			summary.Errors++
		case Skip:
			summary.Skipped++
		}
		summary.Results = append(summary.Results, result)
		if r.Verbose {
			fmt.Printf("%s %s %s\n", result.Status, path, result.Message)
		}
		return nil
	})
	return summary
}

// render runs the pipeline over one page and returns its display list.
func render(html, path string) *displaylist.List {
	doc := engine.ProcessHTML(html, path, nil, engine.Options{})
	return doc.Display
}

// tolerance absorbs floating-point wobble between two layouts of
// equivalent content.
const tolerance = 0.5

// Equivalent reports whether two display lists would rasterize
// identically: same commands in the same order, with geometry equal
// within tolerance.
func Equivalent(a, b *displaylist.List) bool {
	if len(a.Commands) != len(b.Commands) {
		return false
	}
	for i := range a.Commands {
		if !commandsEqual(a.Commands[i], b.Commands[i]) {
			return false
		}
	}
	return true
}

func commandsEqual(a, b displaylist.Command) bool {
	if a.Op != b.Op || a.Color != b.Color || a.Text != b.Text || a.Src != b.Src {
		return false
	}
	return near(a.Rect.X, b.Rect.X) && near(a.Rect.Y, b.Rect.Y) &&
		near(a.Rect.Width, b.Rect.Width) && near(a.Rect.Height, b.Rect.Height) &&
		near(a.Baseline, b.Baseline) && near(a.FontSize, b.FontSize)
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

// PrintSummary writes a human-readable run summary to stdout.
func PrintSummary(summary Summary) {
	fmt.Printf("Total: %d  Passed: %d  Failed: %d  Errors: %d  Skipped: %d  (%.1f%%)\n",
		summary.Total, summary.Passed, summary.Failed, summary.Errors,
		summary.Skipped, summary.PassRate())
	for _, r := range summary.Results {
		if r.Status == Fail || r.Status == Error {
			fmt.Printf("  %s %s: %s\n", r.Status, r.TestFile, r.Message)
		}
	}
}
