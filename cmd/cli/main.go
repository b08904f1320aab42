package main

import (
	"flag"

	"github.com/dmitrijs2005/filevault/internal/client/cli"
)

func main() {

	serverURL := flag.String("s", "http://127.0.0.1:5000", "server base URL")
	flag.Parse()

	app := cli.NewApp(*serverURL)
	app.Run()

}
