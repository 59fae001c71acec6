package main

import (
	"os"

	"github.com/scan-io-git/xray-worker/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
