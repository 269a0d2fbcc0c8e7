/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ssargent/nbt/cmd/nbt/cmd"

func main() {
	cmd.Execute()
}
