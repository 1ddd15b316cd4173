package main

import (
	"fmt"
	"os"

	"github.com/sokinpui/bren"
)

func main() {
	if err := bren.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
