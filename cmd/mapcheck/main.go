package main

import (
	"log"
	"os"

	"github.com/quasilyte/gdata/v2"
)

func main() {
	var store mapStore
	manager, err := gdata.Open(gdata.Config{AppName: "mapcheck"})
	if err != nil {
		log.Println("local map storage unavailable:", err)
	} else {
		store = &gdataStore{manager: manager}
	}

	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, store))
}
