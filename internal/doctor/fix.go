package doctor

import (
	"os"
	"path/filepath"

	"github.com/raphi011/themestore/internal/output"
	"github.com/raphi011/themestore/internal/storage"
)

// fixAllIssues applies fixes for all detected issues and updates stats.
func fixAllIssues(out *output.Printer, dir *storage.Dir, issues []Issue, stats *IssueStats) {
	out.Println("\nFixing issues...")

	for _, issue := range issues {
		switch issue.FixAction {
		case ActionRename:
			if renameBlocked(dir, issue.Target) {
				out.Printf("  ✗ Cannot rename %q: %q is taken\n", issue.Key, issue.Target)
				stats.Failed++
				continue
			}
			if err := dir.Rename(issue.Key, issue.Target); err != nil {
				out.Printf("  ✗ Failed to rename %q: %v\n", issue.Key, err)
				stats.Failed++
				continue
			}
			out.Printf("  ✓ Renamed %q to %q\n", issue.Key, issue.Target)
			stats.Fixed++

		case ActionDelete:
			if err := os.Remove(filepath.Join(dir.Path(), issue.Key)); err != nil && !os.IsNotExist(err) {
				out.Printf("  ✗ Failed to delete %q: %v\n", issue.Key, err)
				stats.Failed++
				continue
			}
			out.Printf("  ✓ Deleted %q\n", issue.Key)
			stats.Fixed++

		default:
			out.Printf("  ⚠ Cannot fix %q automatically: repair or delete %s by hand\n", issue.Key, dir.FilePath(issue.Key))
			stats.Failed++
		}
	}

	out.Printf("\nFixed %d, %d remaining\n", stats.Fixed, stats.Failed)
}
