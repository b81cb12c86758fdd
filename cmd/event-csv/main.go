package main

import "github.com/pfrederiksen/event-csv/internal/cli"

func main() {
	cli.Execute()
}
