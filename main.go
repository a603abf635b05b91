package main

import "prosafe_exporter/cmd"

func main() {
	cmd.Execute()
}
