package main

import "resume-penelitian/cli"

func main() {
	cli.Execute()
}
