package main

import (
	"log"
	"time"

	_ "github.com/anoixa/postboard/docs"

	"github.com/anoixa/postboard/config"

	"github.com/anoixa/postboard/cmd"
)

func init() {
	var cstZone = time.FixedZone("CST", 8*3600) // 东八
	time.Local = cstZone
}

// @title                       Postboard API
// @version                     1.0
// @description                 Blog posts with front images and galleries.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	log.Printf("postboard %s (%s)", config.Version, config.CommitHash)
	cmd.Execute()
}
