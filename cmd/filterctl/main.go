package main

import "biolink/cmd/filterctl/commands"

func main() {
	commands.Execute()
}
