package main

import (
	"fmt"
	"os"

	_ "github.com/crucial707/visco/cmd/visco/keygen"
	_ "github.com/crucial707/visco/cmd/visco/migrate"
	"github.com/crucial707/visco/cmd/visco/root"
	_ "github.com/crucial707/visco/cmd/visco/serve"
	_ "github.com/crucial707/visco/cmd/visco/users"
)

func main() {
	// Execute the root Cobra command
	if err := root.GetRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
