// main is the entry point for the aces CLI.
package main

import (
	"fmt"
	"os"

	"github.com/Recnoss/A.C.E.S/cmd"
	"github.com/Recnoss/A.C.E.S/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
