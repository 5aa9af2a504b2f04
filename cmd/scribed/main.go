package main

import (
	"flag"
	"log"

	"radioscribe/service/scribe"
)

func main() {
	configPath := flag.String("config", "", "path to TOML config file")
	flag.Parse()

	cfg, err := scribe.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	svc, err := scribe.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer svc.Close()

	router := newRouter(svc, cfg.WorkDir)
	log.Println("listening on", cfg.Listen)
	if err := router.Run(cfg.Listen); err != nil {
		log.Fatal(err)
	}
}
