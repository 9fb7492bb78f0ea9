package main

import "obs-clipper/cmd"

func main() {
	cmd.Execute()
}
