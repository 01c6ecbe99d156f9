package main

import "milano/cmd"

func main() {
	cmd.Execute()
}
