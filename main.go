/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/tristendillon/realias/cmd"

func main() {
	cmd.Execute()
}
