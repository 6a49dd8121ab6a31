package main

import "github.com/hassan/minic/internal/cli"

var version = "v0.1.0"

func main() {
	cli.Execute(version)
}
