package consolekeeper

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Overridable in tests for deterministic timestamps.
var now = time.Now

// Get the default active file name for the [Keeper], derived from the
// executable so that two processes sharing a folder do not collide.
func defaultFileName() string {
	if len(os.Args) > 0 && len(os.Args[0]) > 0 {
		return fmt.Sprintf("%s-console.log", filepath.Base(os.Args[0]))
	}
	return "console.log"
}
