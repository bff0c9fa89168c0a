package main

import "github.com/ValentinaAkpan/Datacleaner/cmd"

func main() {
	cmd.Execute()
}
