package main

import "github.com/pfrederiksen/volby-scraper/internal/cli"

func main() {
	cli.Execute()
}
