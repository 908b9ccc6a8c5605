package main

import (
	"github.com/ShivanshCoding36/college-companion/internal/app"
	"github.com/ShivanshCoding36/college-companion/internal/config"
)

// @title College Companion API
// @version 1.0
// @description Study arenas with live presence, student profiles and AI study tools.
// @BasePath /api/v1
func main() {
	app.Go(config.Load())
}
