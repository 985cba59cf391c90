package main

import "github.com/anonto42/snapfeed/backend/cmd/server/commands"

func main() {
	commands.Execute()
}
