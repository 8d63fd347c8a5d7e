package main

import "github.com/KaramelBytes/crimeflow/cmd"

func main() {
	cmd.Execute()
}
