package consolekeeper

// Sizes in bytes
const (
	// Kibibytes
	Kb int = 1_024
	// Kilobytes
	KB int = 1_000
	// Mebibytes
	Mb int = 1_048_576
	// Megabytes
	MB int = 1_000_000
)

// Defaults applied by [New] when an option is omitted or carries an
// out-of-range value.
const (
	DefaultMaxSize     = 10 * Mb
	DefaultMaxBackups  = 3
	DefaultRecentLines = 100
)
