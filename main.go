package main

import "crush-backend/cmd"

func main() {
	cmd.Run()
}
