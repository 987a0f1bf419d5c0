package consolekeeper

import (
	"fmt"
	"strings"
)

// An Opt is a function that mutates a [Keeper]'s attributes.
// An Opt should return the mutated Keeper or an error if it fails to mutate the Keeper.
// An Opt should be used together with [New].
type Opt func(*Keeper) (*Keeper, error)

// The folder where the active log file and its backups are stored.
// It is created on first use if missing. An empty value keeps the previous
// setting. The default value is [os.TempDir].
func WithFolder(folder string) Opt {
	return func(k *Keeper) (*Keeper, error) {
		if len(folder) > 0 {
			k.folder = folder
		}
		return k, nil
	}
}

// The name of the active log file. Backups take the same name with a
// numeric rank appended, as in console.log.1 for the newest. The name must
// not contain a path separator; use [WithFolder] to place the file. An
// empty value keeps the previous setting. The default value is derived
// from the executable name.
func WithFileName(name string) Opt {
	return func(k *Keeper) (*Keeper, error) {
		if strings.ContainsAny(name, `/\`) {
			return nil, fmt.Errorf("file name %q must not contain a path separator", name)
		}
		if len(name) > 0 {
			k.fileName = name
		}
		return k, nil
	}
}

// Maximum size in bytes per log file. The Keeper rotates the active file
// before a write that would carry it past this value. Zero or negative
// values fall back to [DefaultMaxSize].
func WithMaxSize(size int) Opt {
	return func(k *Keeper) (*Keeper, error) {
		if size <= 0 {
			size = DefaultMaxSize
		}
		k.maxSize = size
		return k, nil
	}
}

// Maximum number of rotated backups kept on disk. Zero keeps none, the
// active file is simply deleted on rotation. Negative values fall back to
// [DefaultMaxBackups].
func WithMaxBackups(n int) Opt {
	return func(k *Keeper) (*Keeper, error) {
		if n < 0 {
			n = DefaultMaxBackups
		}
		k.maxBackups = n
		return k, nil
	}
}

// Number of the most recent records retained in memory for [Keeper.Tail].
// Zero or negative disables the window. The default value is
// [DefaultRecentLines].
func WithRecentLines(n int) Opt {
	return func(k *Keeper) (*Keeper, error) {
		k.recentLimit = n
		return k, nil
	}
}
