package main

import "diary/internal/cli"

func main() {
	cli.Execute()
}
