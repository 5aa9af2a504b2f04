package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"radioscribe/pkg/extractor"
	"radioscribe/service/scribe"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to TOML config file")
		asJSON     = flag.Bool("json", false, "print records as JSON lines")
		max        = flag.Int("max", 0, "stop after N records (0 = all)")
		doDownload = flag.Bool("download", false, "download the first record into the work dir")
		doScribe   = flag.Bool("transcribe", false, "download the first record and transcribe it")
		hint       = flag.String("extractor", "", "preferred extractor name")
		pageSize   = flag.Int64("page-size", 0, "override listing page size (0 = site default)")
	)
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: radioscribe [flags] <url>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	url := flag.Arg(0)

	cfg, err := scribe.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *pageSize > 0 {
		cfg.PageSize = *pageSize
	}
	svc, err := scribe.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer svc.Close()

	if *doDownload {
		path, err := svc.DownloadURL(context.Background(), url)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(path)
		return
	}

	if *doScribe {
		job, err := svc.TranscribeURL(context.Background(), url)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(job.Transcript)
		return
	}

	stream, err := svc.Resolve(url, *hint)
	if err != nil {
		log.Fatal(err)
	}
	count := 0
	for stream.Next() {
		printRecord(stream.Entry(), *asJSON)
		count++
		if *max > 0 && count >= *max {
			return
		}
	}
	if err := stream.Err(); err != nil {
		log.Fatal(err)
	}
}

func printRecord(record *extractor.MediaEntry, asJSON bool) {
	if asJSON {
		by, _ := json.Marshal(record)
		fmt.Println(string(by))
		return
	}
	fmt.Printf("%s\t%s\t%s\n", record.ID, record.Title, record.URL)
}
