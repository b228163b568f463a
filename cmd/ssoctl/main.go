// Command ssoctl provisions credentials and maintains the session store of a
// bartab SSO deployment. It works directly on the configured store and reads
// the same environment as the service.
package main

import (
	"os"
)

var version = "dev"

func main() {
	cmd := NewRootCmd()
	cmd.Version = version

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
