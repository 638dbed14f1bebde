package main

import "mp3inspect/cmd"

func main() {
	cmd.Execute()
}
