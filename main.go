package main

import "github.com/wkalt/dircloud/cmd"

func main() {
	cmd.Execute()
}
