package doctor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/raphi011/themestore/internal/storage"
	"github.com/raphi011/themestore/internal/theme"
)

// checkDocuments decodes every document file and compares its stem with
// the key of the name inside it.
func checkDocuments(dir *storage.Dir) ([]Issue, int, error) {
	stems, err := dir.Stems()
	if err != nil {
		return nil, 0, err
	}

	var issues []Issue
	valid := 0
	for _, stem := range stems {
		data, err := os.ReadFile(dir.FilePath(stem))
		if err != nil {
			issues = append(issues, Issue{
				Key:         stem,
				Description: fmt.Sprintf("unreadable: %v", err),
				Category:    CategoryDecode,
			})
			continue
		}

		doc, err := dir.Decode(stem, data)
		if err != nil {
			issues = append(issues, Issue{
				Key:         stem,
				Description: fmt.Sprintf("cannot decode: %v", err),
				Category:    CategoryDecode,
			})
			continue
		}

		if key := doc.Key(); key != stem {
			issues = append(issues, Issue{
				Key:         stem,
				Description: fmt.Sprintf("contains %q, expected file %s", doc.Name, filepath.Base(dir.FilePath(key))),
				FixAction:   ActionRename,
				Category:    CategoryName,
				Target:      key,
			})
			continue
		}
		valid++
	}
	return issues, valid, nil
}

// checkStrayFiles reports temp files left by interrupted writes.
func checkStrayFiles(dir *storage.Dir) ([]Issue, error) {
	paths, err := dir.TempFiles()
	if err != nil {
		return nil, err
	}
	issues := make([]Issue, 0, len(paths))
	for _, p := range paths {
		issues = append(issues, Issue{
			Key:         filepath.Base(p),
			Description: "leftover temp file",
			FixAction:   ActionDelete,
			Category:    CategoryStray,
		})
	}
	return issues, nil
}

// renameBlocked reports whether key cannot receive a renamed file.
func renameBlocked(dir *storage.Dir, key string) bool {
	return theme.ValidateName(key) != nil || dir.Exists(key)
}
