package main

import "library_backend/internals/commands"

func main() {
	commands.Execute()
}
