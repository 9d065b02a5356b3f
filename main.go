package main

import (
	"github.com/beanboi7/chyp8/cmd"

	"github.com/faiface/pixel/pixelgl"
)

// pixelgl needs the main thread for the window
func main() {
	pixelgl.Run(runChyp8)
}

func runChyp8() {
	cmd.Execute()
}
