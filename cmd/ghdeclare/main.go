package main

import "ghdeclare/internal/cmd"

func main() {
	cmd.Execute()
}
