package main

import "github.com/HIM049/the-player/cmd"

func main() {
	cmd.Execute()
}
