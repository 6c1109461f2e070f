package main

import "github.com/sarchlab/stress/cmd"

func main() {
	cmd.Execute()
}
