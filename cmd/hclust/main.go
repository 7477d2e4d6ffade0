package main

import "github.com/TrevorS/hclust/internal/cli"

func main() {
	cli.Execute()
}
