package main

import "rocktalk-be/internal/commands"

func main() {
	commands.Execute()
}
