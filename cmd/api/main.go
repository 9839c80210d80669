package main

import "github.com/spec-kit/campus-booking/internal/cli"

func main() {
	cli.Execute()
}
