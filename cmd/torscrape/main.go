package main

import "github.com/ark9164-create/torscrape/cmd/torscrape/commands"

func main() {
	commands.Execute()
}
