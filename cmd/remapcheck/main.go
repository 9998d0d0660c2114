package main

import (
	"github.com/jetkvm/remapcheck"
)

func main() {
	remapcheck.Main()
}
