package main

import "github.com/mcoot/wordchain-go/internal/cli"

func main() {
	cli.Execute()
}
