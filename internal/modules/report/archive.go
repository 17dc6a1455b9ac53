package report

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/aristath/climrisk/internal/config"
)

// Archiver uploads generated reports to S3 for retention. It is optional;
// the service runs without one when archival is disabled.
type Archiver struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
	log      zerolog.Logger
}

// NewArchiver creates an S3 report archiver from the archive configuration.
// Static credentials are used when provided, the default chain otherwise.
func NewArchiver(ctx context.Context, cfg config.ArchiveConfig, log zerolog.Logger) (*Archiver, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &Archiver{
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
		prefix:   cfg.Prefix,
		log:      log.With().Str("component", "report_archiver").Logger(),
	}, nil
}

// Archive renders the report as CSV and uploads it. The object key is
// prefix/YYYY/MM/report-<id>.csv; the key is returned on success.
func (a *Archiver) Archive(ctx context.Context, rep *RiskReport) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rep); err != nil {
		return "", fmt.Errorf("failed to render report %s: %w", rep.ID, err)
	}

	key := path.Join(
		a.prefix,
		rep.GeneratedAt.Format("2006"),
		rep.GeneratedAt.Format("01"),
		fmt.Sprintf("report-%s.csv", rep.ID),
	)

	start := time.Now()
	_, err := a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        &buf,
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report %s to s3://%s/%s: %w", rep.ID, a.bucket, key, err)
	}

	a.log.Info().
		Str("report_id", rep.ID).
		Str("key", key).
		Dur("elapsed", time.Since(start)).
		Msg("Report archived")

	return key, nil
}
