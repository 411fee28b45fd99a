package main

import "github.com/bgraf/baukasten/cmd"

func main() {
	cmd.Execute()
}
