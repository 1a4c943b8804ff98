// Command configurator checks catalogs, prices selections and searches start dates offline.
package main

import "os"

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
