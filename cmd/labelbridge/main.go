package main

import "github.com/MeKo-Tech/labelbridge/cmd/labelbridge/cmd"

func main() {
	cmd.Execute()
}
