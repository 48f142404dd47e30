package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// confirmBackup asks whether the user has a backup of the target folder and
// returns true only on an explicit "yes". Everything else declines.
func confirmBackup(in io.Reader, out io.Writer, target string) bool {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("!", 60))
	fmt.Fprintln(out, "WARNING: This will modify files in the target folder!")
	fmt.Fprintln(out, strings.Repeat("!", 60))
	fmt.Fprintf(out, "\nDo you have a backup of %q? (yes/no): ", target)

	sc := bufio.NewScanner(in)
	if !sc.Scan() {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(sc.Text()), "yes")
}
