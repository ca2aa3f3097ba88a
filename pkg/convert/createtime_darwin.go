//go:build darwin

package convert

import (
	"os/exec"
	"time"
)

// setCreationTime sets the file's creation date via the SetFile developer
// tool. A missing tool or a failing command is ignored.
func setCreationTime(path string, t time.Time) {
	stamp := t.Format("01/02/2006 15:04:05")
	_ = exec.Command("SetFile", "-d", stamp, "-m", stamp, path).Run()
}
