// Package main provides the classlist CLI for parsing and checking class
// list files.
package main

func main() {
	Execute()
}
