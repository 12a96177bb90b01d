package main

import "github.com/andrescamacho/starwars-movies-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
