package main

import "github.com/Mardens-Inc/sams-manifest-complier/cmd"

func main() {
	cmd.Execute()
}
