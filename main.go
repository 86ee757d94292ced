package main

import "github.com/KaramelBytes/moodmap-cli/cmd"

func main() {
	cmd.Execute()
}
