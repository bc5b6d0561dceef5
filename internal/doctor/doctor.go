package doctor

import (
	"context"
	"fmt"

	"github.com/raphi011/themestore/internal/log"
	"github.com/raphi011/themestore/internal/output"
	"github.com/raphi011/themestore/internal/storage"
)

// Run performs diagnostic checks on a data directory and optionally
// fixes issues. The caller must hold the directory lock.
func Run(ctx context.Context, dir *storage.Dir, fix bool) (IssueStats, error) {
	out := output.FromContext(ctx)
	logger := log.FromContext(ctx)

	var stats IssueStats
	var allIssues []Issue

	out.Println("Checking theme files...")
	docIssues, valid, err := checkDocuments(dir)
	if err != nil {
		return stats, fmt.Errorf("check documents: %w", err)
	}
	stats.Valid = valid
	allIssues = append(allIssues, docIssues...)

	out.Println("Checking for stray files...")
	strayIssues, err := checkStrayFiles(dir)
	if err != nil {
		return stats, fmt.Errorf("check stray files: %w", err)
	}
	allIssues = append(allIssues, strayIssues...)

	for _, issue := range allIssues {
		switch issue.Category {
		case CategoryDecode:
			stats.Decode++
		case CategoryName:
			stats.Name++
		case CategoryStray:
			stats.Stray++
		}
	}
	logger.Debug("doctor checks done", "dir", dir.Path(), "issues", stats.Total())

	printSummary(out, stats)

	if len(allIssues) == 0 {
		out.Println("\n✓ No issues found")
		return stats, nil
	}

	out.Printf("\nFound %d issues:\n", len(allIssues))
	printIssuesByCategory(out, allIssues)

	if fix {
		fixAllIssues(out, dir, allIssues, &stats)
		return stats, nil
	}

	out.Println("\nRun 'themestore doctor --fix' to repair.")
	return stats, nil
}

// printSummary prints a categorized summary.
func printSummary(out *output.Printer, stats IssueStats) {
	out.Println()
	out.Printf("  ✓ %d themes valid\n", stats.Valid)
	if stats.Decode > 0 {
		out.Printf("  ✗ %d undecodable files\n", stats.Decode)
	}
	if stats.Name > 0 {
		out.Printf("  ⚠ %d files under the wrong name\n", stats.Name)
	}
	if stats.Stray > 0 {
		out.Printf("  ⚠ %d leftover temp files\n", stats.Stray)
	}
}

// printIssuesByCategory groups and prints issues.
func printIssuesByCategory(out *output.Printer, issues []Issue) {
	byCategory := make(map[IssueCategory][]Issue)
	for _, issue := range issues {
		byCategory[issue.Category] = append(byCategory[issue.Category], issue)
	}

	categoryNames := map[IssueCategory]string{
		CategoryDecode: "Decode issues",
		CategoryName:   "Name issues",
		CategoryStray:  "Stray files",
	}

	for _, cat := range []IssueCategory{CategoryDecode, CategoryName, CategoryStray} {
		catIssues := byCategory[cat]
		if len(catIssues) == 0 {
			continue
		}

		out.Printf("\n%s:\n", categoryNames[cat])
		for _, issue := range catIssues {
			out.Printf("  • %s: %s\n", issue.Key, issue.Description)
		}
	}
}
