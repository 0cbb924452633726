package main

import (
	"os"
)

// @title Settlement API
// @version 1.0.0
// @description Requests submitted by users and the settlements recorded against them
// @BasePath /
// @schemes http

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
