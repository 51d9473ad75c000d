package main

import "github.com/pairsim/pairsim/cmd"

func main() {
	cmd.Execute()
}
