package main

import (
	"github.com/frahmantamala/employee-management/cmd"
)

func main() {
	cmd.Execute()
}
