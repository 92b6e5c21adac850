package main

import "github.com/EmmanuelR15/portfolio/cmd"

func main() {
	cmd.Execute()
}
