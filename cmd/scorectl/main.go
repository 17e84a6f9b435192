package main

import "grc-platform/internal/cli"

func main() {
	cli.Execute()
}
