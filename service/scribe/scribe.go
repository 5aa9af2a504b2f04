// Package scribe ties the pieces together: resolve a page URL into media
// records through the extractor registry, download the stream, transcribe
// it, and keep a persistent job history.
package scribe

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"radioscribe/model"
	"radioscribe/pkg/downloader"
	"radioscribe/pkg/extractor"
	"radioscribe/pkg/extractor/polskieradio"
	"radioscribe/pkg/fetch"
	"radioscribe/pkg/transcribe"
	"radioscribe/storage"
)

type Service struct {
	cfg      Config
	registry *extractor.Registry
	resolver *extractor.Resolver
	down     *downloader.Downloader
	stt      transcribe.Provider
	storage  *storage.DBStorage
	db       *gorm.DB
}

func New(cfg Config) (*Service, error) {
	fetcher := fetch.NewClient(fetch.Options{
		Timeout: cfg.fetchTimeout(),
		Proxy:   cfg.Proxy,
		Retries: cfg.FetchRetries,
	})
	extractors := polskieradio.All(fetcher)
	polskieradio.SetListPageSize(extractors, cfg.PageSize)
	registry := extractor.NewRegistry(extractors...)

	st, err := storage.NewStorage(cfg.DBPath, cfg.Verbose, &model.Job{})
	if err != nil {
		return nil, err
	}
	return &Service{
		cfg:      cfg,
		registry: registry,
		resolver: extractor.NewResolver(registry),
		down:     downloader.New(downloader.Options{Proxy: cfg.Proxy}),
		stt:      transcribe.NewWhisper(cfg.Whisper.URL, cfg.Whisper.Model, cfg.whisperTimeout()),
		storage:  st,
		db:       st.GormDB(),
	}, nil
}

func (s *Service) Close() {
	s.storage.Close()
}

func (s *Service) Registry() *extractor.Registry {
	return s.registry
}

// Resolve flattens a page URL into a lazy stream of concrete records.
func (s *Service) Resolve(url string, hints ...string) (*extractor.EntryStream, error) {
	return s.resolver.ResolveURL(url, hints...)
}

// DownloadURL resolves a URL and downloads its first concrete record into
// the work dir, returning the local file path.
func (s *Service) DownloadURL(ctx context.Context, url string) (string, error) {
	record, _, err := s.firstRecord(url)
	if err != nil {
		return "", err
	}
	return s.down.DownloadRecord(ctx, record, s.cfg.WorkDir, nil)
}

// TranscribeURL resolves a URL, downloads its first concrete record and
// transcribes it. The job row tracks every stage; the media file is
// removed once the transcript is stored.
func (s *Service) TranscribeURL(ctx context.Context, url string) (*model.Job, error) {
	job := &model.Job{
		UUID:      uuid.New().String(),
		SourceURL: url,
		Status:    model.JobStatusResolving,
	}
	if err := s.db.Create(job).Error; err != nil {
		return nil, err
	}

	record, name, err := s.firstRecord(url)
	if err != nil {
		return s.fail(job, err)
	}
	job.Extractor = name
	job.MediaID = record.ID
	job.MediaURL = record.URL
	job.Title = record.Title
	job.Duration = record.Duration
	job.Formats = record.Formats
	s.update(job, model.JobStatusDownloading)

	path, err := s.down.DownloadRecord(ctx, record, s.cfg.WorkDir, nil)
	if err != nil {
		return s.fail(job, err)
	}
	defer os.Remove(path)

	return s.transcribeJob(ctx, job, path)
}

// TranscribeFile handles an already local media file, e.g. an upload.
func (s *Service) TranscribeFile(ctx context.Context, path string) (*model.Job, error) {
	job := &model.Job{
		UUID:   uuid.New().String(),
		Title:  path,
		Status: model.JobStatusTranscribing,
	}
	if err := s.db.Create(job).Error; err != nil {
		return nil, err
	}
	return s.transcribeJob(ctx, job, path)
}

func (s *Service) transcribeJob(ctx context.Context, job *model.Job, path string) (*model.Job, error) {
	s.update(job, model.JobStatusTranscribing)
	result, err := s.stt.Transcribe(ctx, path)
	if err != nil {
		return s.fail(job, err)
	}
	job.Transcript = result.Text
	job.Language = result.Language
	s.update(job, model.JobStatusDone)
	return job, nil
}

func (s *Service) Job(id string) (*model.Job, error) {
	var job model.Job
	err := s.db.Where("uuid = ?", id).First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *Service) Jobs(limit int) ([]*model.Job, error) {
	if limit <= 0 {
		limit = 50
	}
	jobs := make([]*model.Job, 0)
	err := s.db.Order("created_at desc").Limit(limit).Find(&jobs).Error
	return jobs, err
}

// firstRecord pulls exactly one concrete record out of the lazy
// resolution, without touching pages past the first.
func (s *Service) firstRecord(url string) (*extractor.MediaEntry, string, error) {
	ex, id, err := s.registry.Resolve(url)
	if err != nil {
		return nil, "", err
	}
	root, err := ex.Extract(id, url)
	if err != nil {
		return nil, "", err
	}
	stream := s.resolver.Flatten(root)
	if !stream.Next() {
		if err := stream.Err(); err != nil {
			return nil, "", err
		}
		return nil, "", &extractor.ExtractionError{Extractor: ex.Name(), Reason: "no media records found"}
	}
	return stream.Entry(), ex.Name(), nil
}

func (s *Service) update(job *model.Job, status string) {
	job.Status = status
	if err := s.db.Save(job).Error; err != nil {
		log.Println("save job:", err)
	}
}

func (s *Service) fail(job *model.Job, err error) (*model.Job, error) {
	job.Error = err.Error()
	s.update(job, model.JobStatusFailed)
	return job, err
}
