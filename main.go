package main

import "wfmake/cmd"

func main() {
	cmd.Execute()
}
