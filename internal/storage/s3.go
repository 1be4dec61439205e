package storage

import (
	"context"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

type s3 struct {
	client  *minio.Client
	bucket  string
	baseurl string
}

// S3Options holds the settings of an S3-compatible backend (MinIO, AWS, etc).
type S3Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	BaseURL   string
	UseSSL    bool
}

// NewS3 returns a new S3-compatible backend and ensures the bucket exists.
func NewS3(opts S3Options) (Backend, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create s3 client")
	}

	ctx := context.Background()

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "could not check bucket existence")
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, "could not create bucket")
		}
	}

	return &s3{
		client:  client,
		bucket:  opts.Bucket,
		baseurl: strings.TrimRight(opts.BaseURL, "/"),
	}, nil
}

func (b *s3) Name() string {
	return "s3"
}

func (b *s3) Writer(key, contentType string) (io.WriteCloser, error) {
	pr, pw := io.Pipe()

	w := &s3writer{
		pw:   pw,
		done: make(chan error, 1),
	}

	go func() {
		_, err := b.client.PutObject(context.Background(), b.bucket, key, pr, -1, minio.PutObjectOptions{
			ContentType: contentType,
		})
		pr.CloseWithError(err)
		w.done <- errors.Wrap(err, "could not put object")
	}()

	return w, nil
}

func (b *s3) Reader(key string) (io.ReadCloser, error) {
	object, err := b.client.GetObject(context.Background(), b.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "could not get object")
	}

	// GetObject is lazy so absent keys are only detected here.
	if _, err := object.Stat(); err != nil {
		object.Close()
		return nil, errors.Wrap(err, "could not stat object")
	}

	return object, nil
}

func (b *s3) Remove(key string) error {
	// RemoveObject on an absent key succeeds, as S3 semantics mandate.
	err := b.client.RemoveObject(context.Background(), b.bucket, key, minio.RemoveObjectOptions{})
	return errors.Wrap(err, "could not delete object")
}

func (b *s3) Keys(prefix string) ([]string, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var keys []string
	for object := range b.client.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, errors.Wrap(object.Err, "could not list keys")
		}
		keys = append(keys, object.Key)
	}

	return keys, nil
}

func (b *s3) URL(key string) string {
	return b.baseurl + "/" + b.bucket + "/" + key
}

func (b *s3) Ping() error {
	_, err := b.client.BucketExists(context.Background(), b.bucket)
	return errors.Wrap(err, "could not reach bucket")
}

func (b *s3) Cleanup() error {
	// Keys are flat, there is no directory artifact to collect.
	return nil
}

// s3writer adapts the reader-driven PutObject to the Backend's WriteCloser.
type s3writer struct {
	pw   *io.PipeWriter
	done chan error
}

func (w *s3writer) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *s3writer) Close() error {
	if err := w.pw.Close(); err != nil {
		return err
	}
	return <-w.done
}
