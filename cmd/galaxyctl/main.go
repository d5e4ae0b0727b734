package main

import "galaxy-maker-server/cmd/galaxyctl/cmd"

func main() {
	cmd.Execute()
}
