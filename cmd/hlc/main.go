// SPDX-License-Identifier: Apache-2.0
package main

import (
	"os"

	"github.com/fatih/color"

	"hlc/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}
