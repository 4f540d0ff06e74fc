// Package main is the entry point for the doxyde content server.
package main

func main() {
	Execute()
}
