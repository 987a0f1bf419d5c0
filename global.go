package consolekeeper

import "sync"

// Keeping track of all Keeper instances by the absolute path of their
// active log file, so that two sinks never contend for the same file.
var registry *sync.Map = new(sync.Map)

// Register the Keeper under the given path if none is registered yet,
// else return the registered one.
func register(path string, keeper *Keeper) (k *Keeper, fresh bool) {
	val, loaded := registry.LoadOrStore(path, keeper)
	return val.(*Keeper), !loaded
}

// Unregister the Keeper of a given path.
func unregister(path string) {
	registry.Delete(path)
}
