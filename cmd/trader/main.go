package main

import "github.com/rustyeddy/intraday/internal/cli"

func main() {
	cli.Execute()
}
