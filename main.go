package main

import "tomgalvin.uk/qlprint/cmd"

func main() {
	cmd.Execute()
}
