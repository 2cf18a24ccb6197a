package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"resume-penelitian/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// BackupLayout names backup snapshots, e.g. research_data_backup_20240110_080000.json.
const BackupLayout = "20060102_150405"

// BackupName returns the snapshot name for a save at t.
func BackupName(t time.Time) string {
	return "research_data_backup_" + t.Format(BackupLayout) + ".json"
}

// BackupSink receives a full copy of the research document after every save.
type BackupSink interface {
	WriteBackup(ctx context.Context, name string, data []byte) error
}

// LocalBackup writes snapshots into a directory. Snapshots are never pruned.
type LocalBackup struct {
	Dir string
}

func NewLocalBackup(dir string) *LocalBackup {
	return &LocalBackup{Dir: dir}
}

func (b *LocalBackup) WriteBackup(_ context.Context, name string, data []byte) error {
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	return os.WriteFile(filepath.Join(b.Dir, name), data, 0o644)
}

// MinIOBackup uploads snapshots to an object storage bucket.
type MinIOBackup struct {
	client *minio.Client
	bucket string
}

// NewMinIOBackup creates the client and ensures the bucket exists.
func NewMinIOBackup(cfg config.MinIOConfig) (*MinIOBackup, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := mc.BucketExists(ctx, cfg.Bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return &MinIOBackup{client: mc, bucket: cfg.Bucket}, nil
}

func (b *MinIOBackup) WriteBackup(ctx context.Context, name string, data []byte) error {
	_, err := b.client.PutObject(ctx, b.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("upload backup %s: %w", name, err)
	}
	return nil
}

// MultiBackup fans a snapshot out to every sink and joins their errors.
type MultiBackup []BackupSink

func (m MultiBackup) WriteBackup(ctx context.Context, name string, data []byte) error {
	var errs []error
	for _, sink := range m {
		if err := sink.WriteBackup(ctx, name, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
