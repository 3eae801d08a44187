// Copyright © 2018 The ELPS authors

package main

import "github.com/luthersystems/dtacheck/cmd"

func main() {
	cmd.Execute()
}
