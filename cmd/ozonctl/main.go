// Package main is the entry point for the ozonctl CLI.
package main

import (
	"github.com/donaldgifford/ozon-seller-client/cmd/ozonctl/cmd"
)

func main() {
	cmd.Execute()
}
