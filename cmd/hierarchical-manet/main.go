package main

import (
	"fmt"
	"os"

	// Import to register the simulation
	_ "github.com/hiersim/manet-simulations/cmd/hierarchical-manet/simulation"
)

func main() {
	fmt.Println("Hierarchical MANET simulation registered. Use 'manet-sim run' to execute.")
	os.Exit(0)
}
