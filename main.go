package main

import "github.com/heatsim/hotbox/cmd"

func main() {
	cmd.Execute()
}
