package main

import "simplerename/internal/cmd"

func main() {
	cmd.Execute()
}
