package main

import (
	"log"

	"github.com/revisely/dkt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
