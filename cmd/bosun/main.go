package main

import (
	bosuncmd "github.com/initializ/bosun/cmd"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	bosuncmd.SetVersionInfo(version, commit)
	bosuncmd.Execute()
}
