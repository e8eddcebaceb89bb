package main

import "github.com/thereayou/streamhub/cmd/server"

func main() {
	server.NewServer().Run()
}
