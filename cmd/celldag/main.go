// Command celldag inspects, converts and archives bags of cells.
//
//	celldag inspect state.boc
//	celldag hash -  < state.b64
//	celldag convert --to fift-hex state.boc
//	celldag pack --compression s2 -o state.cbz state.boc
//	celldag unpack --to base64 state.cbz
//
// Inputs may be a raw bag, an archive, or hex/base64 text.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
