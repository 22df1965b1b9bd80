package main

import "github.com/SampleBase/samplebase-services/cmd"

func main() {
	cmd.Execute()
}
