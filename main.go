package main

import "framewatch/cmd"

func main() {
	cmd.Execute()
}
