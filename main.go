package main

import "github.com/Tiliavir/promille/cmd"

func main() {
	cmd.Execute()
}
