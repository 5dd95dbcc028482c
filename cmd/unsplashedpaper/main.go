package main

import (
	"os"

	"github.com/dixieflatline76/UnsplashedPaper/util/log"
)

func main() {
	if err := newApp(defaultEnv()).Run(os.Args); err != nil {
		log.Fatalf("%v", err)
	}
}
