package main

import (
	"fmt"
	"os"
)

func run() int {
	os.Exit(2) // вне main разрешено
	return 0
}

func main() {
	fmt.Println(run())
	os.Exit(1) // want "avoid direct os.Exit call in main function of main package"
}
