package main

import "github.com/dylink/dylink/cmd/dylink"

func main() { dylink.Execute() }
