package main

import "github.com/andrescamacho/pr0game-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
