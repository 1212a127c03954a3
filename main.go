package main

import "github.com/Kirtivanjode/wanderwithkii/commands"

func main() {
	commands.Execute()
}
