package main

import "github.com/KIRKR101/Streamline/internal/cli"

func main() {
	cli.Execute()
}
