package main

import "github.com/OpenTraceLab/flashsvf/cmd/flashsvf/cmd"

func main() {
	cmd.Execute()
}
