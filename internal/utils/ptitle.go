package utils

import "fmt"

// ProgressTitle is the process title shown while test cases run, so a
// hung run can be spotted in ps.
func ProgressTitle(prog string, done, total int, current string) string {
	if current == "" {
		return fmt.Sprintf("%s [%d/%d]", prog, done, total)
	}
	return fmt.Sprintf("%s [%d/%d] %s", prog, done, total, current)
}
