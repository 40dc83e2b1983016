// Command forge compiles per-feature context packages for coding agents.
package main

import "github.com/ZhiHanZ/forge/cmd"

func main() {
	cmd.Execute()
}
