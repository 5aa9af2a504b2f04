package model

import (
	"gorm.io/gorm"
)

const (
	JobStatusQueued       = "queued"
	JobStatusResolving    = "resolving"
	JobStatusDownloading  = "downloading"
	JobStatusTranscribing = "transcribing"
	JobStatusDone         = "done"
	JobStatusFailed       = "failed"
)

// Job is one transcription request, from submitted URL or uploaded file
// to finished transcript.
type Job struct {
	gorm.Model
	UUID string `gorm:"uniqueIndex"`

	SourceURL string `gorm:"index"`
	Extractor string
	MediaID   string
	MediaURL  string
	Title     string
	Duration  int64
	Formats   FormatList `gorm:"type:json"`

	Status     string
	Transcript string
	Language   string
	Error      string
}

func (j *Job) TableName() string {
	return "jobs"
}
