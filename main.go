package main

import "entity-kit/cmd"

func main() {
	cmd.Execute()
}
