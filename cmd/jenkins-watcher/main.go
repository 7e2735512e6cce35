package main

import "github.com/davarch/jenkins-watcher/cmd/jenkins-watcher/cli"

func main() {
	cli.Execute()
}
