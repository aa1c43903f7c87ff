package main

import (
	"log"

	"github.com/techfix-solutions/desk-service/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
