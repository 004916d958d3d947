// Command line entry point for the Urban Sight offline toolkit.
package main

import "github.com/urbansight/urbansight/internal/interfaces/cli"

func main() {
	cli.Execute()
}
