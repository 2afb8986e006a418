package main

import "github.com/avocadev/blog-api/cmd"

func main() {
	cmd.Execute()
}
