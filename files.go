package consolekeeper

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/trviph/collection"
)

type backupInfo struct {
	filePath string
	index    int
}

// Scan the folder for numbered backups of the given active file and return
// them ordered by recency rank, newest first. Files that merely share the
// prefix without a numeric rank are not ours and are left alone.
func scanBackups(activePath string) (*collection.List[*backupInfo], error) {
	matches, err := filepath.Glob(activePath + ".*")
	if err != nil {
		return nil, fmt.Errorf("failed to glob backups, caused by %w", err)
	}

	minHeap, err := collection.NewHeap(func(current, other *backupInfo) bool {
		return current.index < other.index
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create heap, caused by %w", err)
	}
	prefix := activePath + "."
	for _, match := range matches {
		index, err := strconv.Atoi(strings.TrimPrefix(match, prefix))
		if err != nil || index < 1 {
			continue
		}
		minHeap.Push(&backupInfo{filePath: match, index: index})
	}

	l := collection.NewList[*backupInfo]()
	for !minHeap.IsEmpty() {
		backup, err := minHeap.Pop()
		if err != nil {
			return nil, fmt.Errorf("failed to order backups, caused by %w", err)
		}
		l.Append(backup)
	}
	return l, nil
}
