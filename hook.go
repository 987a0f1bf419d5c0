package consolekeeper

import (
	_ "embed"
)

// HookBindingName is the name of the function the hook script calls with
// each captured (level, message) pair. The host must expose a native
// function under this name in the page context, which [Attach] does.
const HookBindingName = "__consoleKeeperEmit"

// The script is fixed at build time; it carries no state and is identical
// across calls and process lifetimes.
//
//go:embed consolehook.js
var hookScript string

// HookScript returns the JavaScript fragment that captures console output
// inside an embedded page. Once injected it wraps console.log, info, warn,
// error, and debug, stringifies each call's arguments, and forwards the
// level and joined message to the function named [HookBindingName] before
// handing the call back to the original console. Uncaught errors and
// unhandled promise rejections are forwarded as error records.
func HookScript() string {
	return hookScript
}
