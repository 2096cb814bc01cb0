package main

import "github.com/webskin/iiot-go-cli/internal/cmd"

func main() {
	cmd.Execute()
}
