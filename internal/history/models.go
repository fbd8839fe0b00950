package history

import "time"

const SchemaVersion = 1

// Snapshot is one recorded lint run.
type Snapshot struct {
	ProjectKey    string
	SchemaVersion int
	Timestamp     time.Time
	FileCount     int
	ErrorCount    int // files that failed to parse or check
	RuleCounts    map[string]int
}

// Total returns the number of diagnostics across all rules.
func (s Snapshot) Total() int {
	total := 0
	for _, n := range s.RuleCounts {
		total += n
	}
	return total
}

// Trend is the per-rule delta between the two most recent snapshots.
type Trend struct {
	Rule     string
	Previous int
	Current  int
}

func (t Trend) Delta() int { return t.Current - t.Previous }
