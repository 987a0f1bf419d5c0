package consolekeeper

import "fmt"

// A HostView is the subset of an embedded web view that Attach needs:
// binding a native function into the page and injecting a script evaluated
// on page load. github.com/webview/webview_go satisfies it directly.
type HostView interface {
	Bind(name string, f interface{}) error
	Init(js string)
}

// Attach wires a host web view to the Keeper: it binds [HookBindingName]
// to a function forwarding each captured record to [Keeper.Log] and
// injects [HookScript] so the interception is installed on every page the
// view loads. Call it before navigating the view.
func Attach(view HostView, keeper *Keeper) error {
	if err := view.Bind(HookBindingName, func(level, message string) {
		keeper.Log(level, message)
	}); err != nil {
		return fmt.Errorf("failed to bind console hook, caused by %w", err)
	}
	view.Init(HookScript())
	return nil
}
