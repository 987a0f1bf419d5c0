package consolekeeper

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/trviph/collection"
)

// A [Keeper] is a rotating sink for console output captured inside an
// embedded web view. It owns one active log file plus a bounded set of
// numbered backups in a folder. Use [New] to create a Keeper.
type Keeper struct {
	// See [WithFolder] for documentation.
	folder string
	// See [WithFileName] for documentation.
	fileName string
	// See [WithMaxSize] for documentation.
	maxSize int
	// See [WithMaxBackups] for documentation.
	maxBackups int
	// See [WithRecentLines] for documentation.
	recentLimit int

	mu          sync.Mutex
	currentFile *os.File
	currentSize int
	closed      bool

	recent *collection.List[string]
}

// Make sure that Keeper implements the [io.WriteCloser] interface,
// so that it can be used with the [log] package.
var _ io.WriteCloser = (*Keeper)(nil)

// Returned by the internal write path when a failed rotation left the
// Keeper without an open log file.
var errMissingFile = errors.New("log file is not open")

// Timestamps are UTC so records compare the same regardless of the host
// timezone; fixed millisecond precision keeps line lengths predictable.
const recordTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Create a new [Keeper] with the provided options.
// This will create a Keeper with the default configuration if no option is
// provided. See [Opt] for all available options.
//
// Calling New twice for the same active file path returns the same
// instance with the limits from the later call applied; the already open
// file handle is kept, never leaked. A Keeper that was closed, or that
// dropped its file after a failed rotation, is reopened.
//
// Example usage:
//
//	import "github.com/trviph/consolekeeper"
//
//	func main() {
//		keeper, err := consolekeeper.New(
//			consolekeeper.WithFolder("/var/log/myapp"),
//			consolekeeper.WithMaxSize(10 * consolekeeper.Mb),
//		)
//	}
func New(opts ...Opt) (*Keeper, error) {
	defaultOpts := []Opt{
		WithFolder(os.TempDir()),
		WithFileName(defaultFileName()),
		WithMaxSize(DefaultMaxSize),
		WithMaxBackups(DefaultMaxBackups),
		WithRecentLines(DefaultRecentLines),
	}
	finalOpts := append(defaultOpts, opts...)

	keeper := new(Keeper)
	if err := keeper.configure(finalOpts...); err != nil {
		return nil, fmt.Errorf("failed to create new keeper, caused by %w", err)
	}

	keeper, fresh := register(keeper.registryKey(), keeper)
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	// When loaded from the registry, carry the new limits over to the
	// registered instance.
	if !fresh {
		if err := keeper.configure(opts...); err != nil {
			return nil, fmt.Errorf("failed to create new keeper, caused by %w", err)
		}
	}

	if keeper.currentFile == nil || keeper.closed {
		if err := keeper.open(); err != nil {
			unregister(keeper.registryKey())
			return nil, fmt.Errorf("failed to create new keeper, caused by %w", err)
		}
	}
	return keeper, nil
}

// Apply options to the Keeper. This mutates configuration only; opening
// the log file is [Keeper.open]'s job, so that a Keeper loaded from the
// registry can be reconfigured without touching its handle.
func (k *Keeper) configure(opts ...Opt) error {
	var err error
	for _, opt := range opts {
		k, err = opt(k)
		if err != nil {
			return fmt.Errorf("failed to apply option, caused by %w", err)
		}
	}
	return nil
}

// Open the active log file, creating the folder if needed, and record its
// current size. Any previously held handle is closed first.
func (k *Keeper) open() error {
	if k.currentFile != nil {
		if err := k.currentFile.Close(); err != nil {
			return fmt.Errorf("failed to close previous log file, caused by %w", err)
		}
		k.currentFile = nil
	}

	if err := os.MkdirAll(k.folder, 0755); err != nil {
		return fmt.Errorf("failed to create log folder, caused by %w", err)
	}
	file, err := k.openActive()
	if err != nil {
		return fmt.Errorf("failed to open log file, caused by %w", err)
	}
	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to stat log file, caused by %w", err)
	}

	k.currentFile = file
	k.currentSize = int(stat.Size())
	k.closed = false
	if k.recent == nil {
		k.recent = collection.NewList[string]()
	}
	k.pruneStaleBackups()
	return nil
}

// Get a descriptor for the active log file.
func (k *Keeper) openActive() (*os.File, error) {
	return os.OpenFile(k.activePath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// The path of the active log file.
func (k *Keeper) activePath() string {
	return filepath.Join(k.folder, k.fileName)
}

// The path of the numbered backup at the given recency rank.
func (k *Keeper) backupPath(index int) string {
	return k.activePath() + "." + strconv.Itoa(index)
}

func (k *Keeper) registryKey() string {
	if abs, err := filepath.Abs(k.activePath()); err == nil {
		return abs
	}
	return k.activePath()
}

// Backups whose rank exceeds the current retention setting were left
// behind by a run with a larger one; no future rotation would ever reach
// them, so drop them when the Keeper opens.
func (k *Keeper) pruneStaleBackups() {
	backups, err := scanBackups(k.activePath())
	if err != nil {
		return
	}
	length := backups.Length()
	for i := 0; i < length; i++ {
		backup, err := backups.Dequeue()
		if err != nil {
			return
		}
		if backup.index > k.maxBackups {
			_ = os.Remove(backup.filePath)
		}
	}
}

// Log appends one console record to the active log file, formatted as
// "[timestamp] [level] message". Level and message are opaque text; a
// message holding newlines is written verbatim.
//
// Failures are deliberately discarded. The sink is a diagnostic aid and
// must never destabilize the host that feeds it, so Log never returns nor
// panics, on a nil Keeper, a closed Keeper, or a full disk alike. Use
// [Keeper.Write] when the error matters.
func (k *Keeper) Log(level, message string) {
	if k == nil {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	_, _ = k.write(formatRecord(now(), level, message))
}

// Write appends msg to the active log file, rotating first if msg would
// carry it past the size limit. It implements [io.Writer] so the standard
// [log] package can target the Keeper directly.
func (k *Keeper) Write(msg []byte) (int, error) {
	if k == nil {
		return 0, os.ErrInvalid
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.write(msg)
}

// The append path. Callers must hold k.mu.
func (k *Keeper) write(msg []byte) (int, error) {
	if k.closed {
		return 0, fmt.Errorf("failed to write log message, caused by %w", os.ErrClosed)
	}
	if k.currentFile == nil {
		return 0, fmt.Errorf("failed to write log message, caused by %w", errMissingFile)
	}

	if k.shouldRotate(msg) {
		if err := k.rotate(); err != nil && k.currentFile == nil {
			return 0, err
		}
	}

	n, err := k.currentFile.Write(msg)
	if err != nil {
		return n, fmt.Errorf("failed to write log message, caused by %w", err)
	}
	k.currentSize += n
	k.remember(msg)
	return n, nil
}

// A record that does not fit is written whole into an empty active file
// instead of rotating into an empty backup.
func (k *Keeper) shouldRotate(nextMsg []byte) bool {
	return k.maxSize > 0 && k.currentSize > 0 && k.currentSize+len(nextMsg) > k.maxSize
}

// Rotate archives the active log file immediately without waiting for the
// size threshold to be reached.
func (k *Keeper) Rotate() error {
	if k == nil {
		return nil
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return fmt.Errorf("failed to rotate log file, caused by %w", os.ErrClosed)
	}
	if k.currentFile == nil {
		return fmt.Errorf("failed to rotate log file, caused by %w", errMissingFile)
	}
	return k.rotate()
}

// Demote the active log file to backup rank 1 and open a fresh one.
// If the demotion fails the Keeper falls back to appending to the old
// file; if even that cannot be reopened it drops records until a later
// [New] for the same path heals it. Callers must hold k.mu.
func (k *Keeper) rotate() error {
	if err := k.currentFile.Close(); err != nil {
		return fmt.Errorf("failed to rotate log file, caused by %w", err)
	}

	if err := k.shiftBackups(); err != nil {
		file, openErr := k.openActive()
		if openErr != nil {
			k.currentFile = nil
			return fmt.Errorf("failed to rotate log file, caused by %w", openErr)
		}
		k.currentFile = file
		return fmt.Errorf("failed to rotate log file, caused by %w", err)
	}

	file, err := k.openActive()
	if err != nil {
		k.currentFile = nil
		return fmt.Errorf("failed to rotate log file, caused by %w", err)
	}
	k.currentFile = file
	k.currentSize = 0
	return nil
}

// Shift every backup one rank up, oldest first, then move the active file
// into rank 1. With retention disabled the active file is deleted instead.
// Missing ranks are tolerated so the shift works on a sparse set.
func (k *Keeper) shiftBackups() error {
	active := k.activePath()
	if k.maxBackups <= 0 {
		if err := os.Remove(active); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove old log file, caused by %w", err)
		}
		return nil
	}

	oldest := k.backupPath(k.maxBackups)
	if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove oldest backup, caused by %w", err)
	}
	for i := k.maxBackups - 1; i >= 1; i-- {
		src, dst := k.backupPath(i), k.backupPath(i+1)
		if err := os.Rename(src, dst); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to shift backup %s, caused by %w", src, err)
		}
	}
	if err := os.Rename(active, k.backupPath(1)); err != nil {
		return fmt.Errorf("failed to archive log file, caused by %w", err)
	}
	return nil
}

// Keep a bounded window of the most recent records for [Keeper.Tail].
// Callers must hold k.mu.
func (k *Keeper) remember(msg []byte) {
	if k.recentLimit <= 0 || k.recent == nil {
		return
	}
	k.recent.Append(strings.TrimRight(string(msg), "\n"))
	for k.recent.Length() > k.recentLimit {
		_, _ = k.recent.Dequeue()
	}
}

// Tail returns up to n of the most recent records, oldest first. It reads
// from an in-memory window, not from disk, so records written before this
// process started are not included.
func (k *Keeper) Tail(n int) []string {
	if k == nil {
		return nil
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.recent == nil || n <= 0 {
		return nil
	}

	// Cycle every element through the list once so the window is left
	// intact after the read.
	length := k.recent.Length()
	lines := make([]string, 0, min(n, length))
	for i := 0; i < length; i++ {
		line, err := k.recent.Dequeue()
		if err != nil {
			break
		}
		k.recent.Append(line)
		if i >= length-n {
			lines = append(lines, line)
		}
	}
	return lines
}

// Backups lists the rotated backup files currently on disk, newest first.
func (k *Keeper) Backups() ([]string, error) {
	if k == nil {
		return nil, nil
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	backups, err := scanBackups(k.activePath())
	if err != nil {
		return nil, fmt.Errorf("failed to list backups, caused by %w", err)
	}
	paths := make([]string, 0, backups.Length())
	length := backups.Length()
	for i := 0; i < length; i++ {
		backup, err := backups.Dequeue()
		if err != nil {
			return paths, fmt.Errorf("failed to list backups, caused by %w", err)
		}
		paths = append(paths, backup.filePath)
	}
	return paths, nil
}

// Close flushes and closes the active log file. It is safe to call on a
// nil Keeper and to call more than once; the second call is a no-op.
// After Close, [Keeper.Log] silently drops records and [Keeper.Write]
// reports [os.ErrClosed].
func (k *Keeper) Close() error {
	if k == nil {
		return nil
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return nil
	}
	k.closed = true
	unregister(k.registryKey())

	if k.currentFile == nil {
		return nil
	}
	syncErr := k.currentFile.Sync()
	closeErr := k.currentFile.Close()
	k.currentFile = nil
	if syncErr != nil {
		return fmt.Errorf("failed to flush log file, caused by %w", syncErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close log file, caused by %w", closeErr)
	}
	return nil
}

func formatRecord(t time.Time, level, message string) []byte {
	return []byte(fmt.Sprintf("[%s] [%s] %s\n", t.UTC().Format(recordTimeLayout), level, message))
}
