package display

import (
	"fmt"
	"os"

	"github.com/backmassage/samplenorm/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if term.Magenta != "" {
		fmt.Fprint(os.Stdout, term.Magenta)
	}
	fmt.Fprint(os.Stdout, ` ___  __ _ _ __ ___  _ __ | | ___ _ __   ___  _ __ _ __ ___
/ __|/ _`+"`"+` | '_ `+"`"+` _ \| '_ \| |/ _ \ '_ \ / _ \| '__| '_ `+"`"+` _ \
\__ \ (_| | | | | | | |_) | |  __/ | | | (_) | |  | | | | | |
|___/\__,_|_| |_| |_| .__/|_|\___|_| |_|\___/|_|  |_| |_| |_|
                    |_|
`)
	if term.Magenta != "" {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
