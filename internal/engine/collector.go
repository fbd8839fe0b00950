package engine

// Collector accumulates diagnostics and tool errors across files and
// computes the aggregate verdict. Per-file diagnostic order is preserved;
// files appear in the order they were added.
type Collector struct {
	diags  []Diagnostic
	errSet []FileError
}

// FileError is a tool-level failure (parse failure, rule internal error)
// for one file, reported distinctly from lint findings.
type FileError struct {
	File string
	Err  error
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Add(diags ...Diagnostic) {
	c.diags = append(c.diags, diags...)
}

func (c *Collector) AddError(file string, err error) {
	c.errSet = append(c.errSet, FileError{File: file, Err: err})
}

func (c *Collector) Diagnostics() []Diagnostic {
	return c.diags
}

func (c *Collector) Errors() []FileError {
	return c.errSet
}

// Failed reports whether the run must exit non-zero: any error-severity
// diagnostic, or any tool error. When strict is set, warnings fail too.
func (c *Collector) Failed(strict bool) bool {
	if len(c.errSet) > 0 {
		return true
	}
	for _, d := range c.diags {
		if d.Severity == SeverityError || strict {
			return true
		}
	}
	return false
}

// Counts returns the number of diagnostics per rule id.
func (c *Collector) Counts() map[string]int {
	out := make(map[string]int, len(c.diags))
	for _, d := range c.diags {
		out[d.Rule]++
	}
	return out
}
