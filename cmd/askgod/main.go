package main

import "github.com/mcoot/askgod-go/internal/cli"

func main() {
	cli.Execute()
}
