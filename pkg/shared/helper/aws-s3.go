package helper

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"kriyatec.com/medstore-api/pkg/shared/config"
)

// Presigned links cannot outlive a week on S3.
const maxPresignAge = 7 * 24 * time.Hour

// S3Uploader puts generated files into an S3 compatible bucket.
type S3Uploader struct {
	client    *s3.S3
	bucket    string
	folder    string
	publicURL string
}

func NewS3Uploader(cfg config.S3) (*S3Uploader, error) {
	if cfg.APIKey == "" || cfg.Bucket == "" {
		return nil, errors.New("s3 credentials or bucket not configured")
	}
	sess, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.APIKey, cfg.Secret, ""),
		Endpoint:         aws.String(cfg.Endpoint),
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	return &S3Uploader{
		client:    s3.New(sess),
		bucket:    cfg.Bucket,
		folder:    strings.Trim(cfg.Folder, "/"),
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

// ObjectKey files uploads under <folder>/<yyyy>/<mm>/.
func (u *S3Uploader) ObjectKey(fileName string, at time.Time) string {
	return path.Join(u.folder, at.Format("2006"), at.Format("01"), filepath.Base(fileName))
}

// Upload stores body under key and returns a link to it.
func (u *S3Uploader) Upload(ctx context.Context, key string, body []byte) (string, error) {
	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	contentDisposition := "inline"
	if contentType == "application/pdf" {
		contentDisposition = "attachment; filename=" + filepath.Base(key)
	}

	input := &s3.PutObjectInput{
		Bucket:             aws.String(u.bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(body),
		ContentType:        aws.String(contentType),
		ContentDisposition: aws.String(contentDisposition),
	}
	if u.publicURL != "" {
		input.ACL = aws.String("public-read")
	}
	if _, err := u.client.PutObjectWithContext(ctx, input); err != nil {
		return "", err
	}
	return u.link(key)
}

func (u *S3Uploader) link(key string) (string, error) {
	if u.publicURL != "" {
		return u.publicURL + "/" + key, nil
	}
	req, _ := u.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	return req.Presign(maxPresignAge)
}

func (u *S3Uploader) Delete(ctx context.Context, key string) error {
	_, err := u.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	return err
}
