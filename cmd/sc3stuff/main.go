// Command sc3stuff extracts, catalogues and exports SeisComP
// event-parameter archives.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
