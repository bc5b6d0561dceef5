package doctor

// IssueCategory groups issues by type.
type IssueCategory string

const (
	// CategoryDecode represents files that cannot be decoded as themes.
	CategoryDecode IssueCategory = "decode"
	// CategoryName represents files stored under the wrong key.
	CategoryName IssueCategory = "name"
	// CategoryStray represents leftover temp files from interrupted writes.
	CategoryStray IssueCategory = "stray"
)

// Fix actions.
const (
	ActionNone   = ""
	ActionRename = "rename"
	ActionDelete = "delete"
)

// Issue represents a problem detected by doctor.
type Issue struct {
	Key         string        // file stem, or temp file name
	Description string        // human-readable description
	FixAction   string        // what --fix would do
	Category    IssueCategory // issue category
	Target      string        // key to rename to
}

// IssueStats tracks counts by category.
type IssueStats struct {
	Valid  int // files that decode under the right key
	Decode int
	Name   int
	Stray  int
	Fixed  int
	Failed int
}

// Total returns the number of issues found.
func (s IssueStats) Total() int {
	return s.Decode + s.Name + s.Stray
}
