// Colorname names colors from the command line, see the README:
// https://github.com/BitPonyLLC/colorname#readme
package main

import (
	"os"

	"github.com/BitPonyLLC/colorname/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
