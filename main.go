package main

import "github.com/rupeedesk/cbs-admin/cmd"

func main() {
	cmd.Execute()
}
