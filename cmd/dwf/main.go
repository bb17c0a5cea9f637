package main

import "github.com/OpenTraceLab/OpenTraceDWF/cmd/dwf/cmd"

func main() {
	cmd.Execute()
}
