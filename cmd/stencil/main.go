// stencil CLI - substitute ${name} and ${group:index} placeholders in text
package main

import "github.com/getmockd/stencil/pkg/cli"

func main() {
	cli.Execute()
}
