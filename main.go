package main

import "github.com/partnerhub/partnerhub/cmd"

func main() {
	cmd.Execute()
}
