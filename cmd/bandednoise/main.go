package main

import "github.com/MeKo-Tech/bandednoise/internal/cmd"

func main() {
	cmd.Execute()
}
