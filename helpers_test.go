package trackable_test

import (
	"fmt"
	"regexp"
)

var locationPattern = regexp.MustCompile(`at \S*/([^/\s]+\.go):\d+`)

// pprintf prints with locations made independent of the machine and of
// line numbers, so that examples have stable output.
func pprintf(format string, args ...interface{}) {
	fmt.Print(locationPattern.ReplaceAllString(
		fmt.Sprintf(format, args...), "at /home/testuser/pkgs/trackable/$1:0"))
}
