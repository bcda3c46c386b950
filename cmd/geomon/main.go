// Copyright © 2019 One Concern

package main

import (
	"github.com/oneconcern/geomon/cmd/geomon/cmd"
)

func main() {
	cmd.Execute()
}
