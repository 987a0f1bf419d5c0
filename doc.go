// Consolekeeper is a Go package that captures JavaScript console output from an embedded web view and persists it to disk with automatic size-based rotation.
//
// Note that Consolekeeper is not a full-blown logging package. It is the sink behind a page's console: it receives (level, message) records, writes them to a bounded set of files, and nothing more.
// It also plays nicely with the standard [log] package, or any package that writes through an [io.Writer].
//
// The core of Consolekeeper is the [Keeper] struct, which implements the [io.WriteCloser] interface.
// A [Keeper] is safe to use from multiple goroutines in the same process,
// but not safe when shared between multiple processes.
//
// # The Keeper Struct
//
// Keeper owns one active log file plus up to a configured number of numbered backups.
// To create a Keeper, use the [New] function. For example, the following code captures a web view's console into the platform temp folder with the default limits:
//
//	import "github.com/trviph/consolekeeper"
//
//	func main() {
//		keeper, err := consolekeeper.New()
//		if err != nil {
//			// The app keeps running without console logging.
//		}
//		defer keeper.Close()
//
//		// Wire the embedded web view to the Keeper; the view type from
//		// github.com/webview/webview_go satisfies HostView directly.
//		if err := consolekeeper.Attach(view, keeper); err != nil {
//			// Same policy, logging is best-effort.
//		}
//	}
//
// Records can also be fed directly, from a host binding or from tests:
//
//	keeper.Log("warn", "something looks off")
//
// # Configure the Keeper
//
// This package provides some configurations for the [Keeper].
// These configurations come in the form of WithXxx functions that follow the Go Options pattern.
// You should take a look at [Opt] and the WithXxx functions in the Go package reference for documentation on these configurations.
// An example of how to use these functions:
//
//	keeper, err := consolekeeper.New(
//		// Place the files next to the app's other logs.
//		consolekeeper.WithFolder("/Users/me/Library/Logs/MyApp"),
//		consolekeeper.WithFileName("console.log"),
//		// Rotate past 10 Mebibytes, keep the 3 newest backups.
//		consolekeeper.WithMaxSize(10*consolekeeper.Mb),
//		consolekeeper.WithMaxBackups(3),
//	)
//
// # How Does This Work
//
// When creating a Keeper, it first creates the folder configured with [WithFolder] if it does not exist yet,
// then opens the active log file, named by [WithFileName], reusing the file and its current size if one is already there.
// Backups of the active file sit in the same folder under the same name with a numeric rank appended: console.log.1 is the newest backup, console.log.2 the next, and so on.
// Backups whose rank exceeds the [WithMaxBackups] setting are removed at this point, since no rotation would ever touch them again.
//
// Every time a record arrives, the Keeper first checks whether appending it would carry the active file past the [WithMaxSize] limit.
// If it would, the Keeper rotates: the oldest backup is deleted, every other backup moves one rank up, the active file becomes backup 1, and a fresh active file is opened.
// The record then lands in the fresh file, so a record is never split across a rotation.
// A single record larger than the limit is written whole instead of producing an empty backup.
//
// Failures after [New] are absorbed: [Keeper.Log] never returns an error and never panics, because a diagnostic sink must not take its host down with it.
// If a rotation fails midway the Keeper keeps appending to the old file when possible, and otherwise drops records silently until a later [New] for the same path reopens it.
// The error-returning [Keeper.Write] and [Keeper.Rotate] are there for callers that do want to observe failures.
//
// You can rotate manually with [Keeper.Rotate]. [Keeper.Close] flushes and closes the active file;
// it is idempotent, and records arriving after it are dropped.
//
// # Capturing a Page's Console
//
// [HookScript] returns a fixed JavaScript fragment that wraps the page's console methods and forwards every call, stringified, to a native function named [HookBindingName].
// [Attach] installs both halves onto a [HostView]: the native binding targeting [Keeper.Log] and the script itself.
// The fragment is embedded static data; nothing about it is generated at run time.
package consolekeeper
