package main

import "github.com/example/vocabdaily/cmd"

func main() {
	cmd.Execute()
}
