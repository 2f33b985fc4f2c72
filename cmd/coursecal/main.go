package main

import "github.com/pfrederiksen/coursecal/internal/cli"

func main() {
	cli.Execute()
}
