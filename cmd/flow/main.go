package main

import (
	"fmt"
	"os"

	"github.com/alexisbeaulieu97/flow/internal/samples"
)

func main() {
	if err := samples.Register(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register workflows: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
