// Command pulse reports end-to-end test health for projects and branches.
package main

import "os"

func main() {
	if rootCmd.Execute() != nil {
		os.Exit(1)
	}
}
