package main

import (
	"log"

	"github.com/ridgecrew/trainhub/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
