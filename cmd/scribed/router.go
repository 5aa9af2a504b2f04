package main

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"radioscribe/service/scribe"
)

func newRouter(svc *scribe.Service, workDir string) *gin.Engine {
	router := gin.Default()

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// POST /api/jobs accepts either a media upload ("file") or a page
	// URL ("url"); both end in a finished transcription job.
	router.POST("/api/jobs", func(c *gin.Context) {
		if file, err := c.FormFile("file"); err == nil {
			path := filepath.Join(workDir, uuid.New().String()+filepath.Ext(file.Filename))
			if err := c.SaveUploadedFile(file, path); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			defer os.Remove(path)
			job, err := svc.TranscribeFile(c.Request.Context(), path)
			if err != nil {
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "job": job})
				return
			}
			c.JSON(http.StatusOK, job)
			return
		}

		url := c.PostForm("url")
		if url == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "either file or url is required"})
			return
		}
		job, err := svc.TranscribeURL(c.Request.Context(), url)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "job": job})
			return
		}
		c.JSON(http.StatusOK, job)
	})

	router.GET("/api/jobs/:id", func(c *gin.Context) {
		job, err := svc.Job(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		c.JSON(http.StatusOK, job)
	})

	router.GET("/api/jobs", func(c *gin.Context) {
		jobs, err := svc.Jobs(0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, jobs)
	})

	// GET /api/resolve streams resolved records for a URL without
	// downloading anything.
	router.GET("/api/resolve", func(c *gin.Context) {
		url := c.Query("url")
		if url == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
			return
		}
		stream, err := svc.Resolve(url, c.Query("extractor"))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		records, err := stream.Collect()
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "records": records})
			return
		}
		c.JSON(http.StatusOK, records)
	})

	return router
}
