package main

import "pickaxeclub/wither/cmd"

func main() {
	cmd.Execute()
}
