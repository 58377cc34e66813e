package main

import "github.com/saltbo/cedictx/cmd"

func main() {
	cmd.Execute()
}
