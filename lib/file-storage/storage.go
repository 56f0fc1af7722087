package filestorage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	"teamtrack-backend/config"
	"teamtrack-backend/models"
)

// FileCategory decides the object key prefix an upload lands under.
type FileCategory string

const (
	CategoryProject FileCategory = "projects"
	CategoryTask    FileCategory = "tasks"
	CategoryProfile FileCategory = "profiles"
)

func (c FileCategory) IsValid() bool {
	switch c {
	case CategoryProject, CategoryTask, CategoryProfile:
		return true
	}
	return false
}

type Provider interface {
	Upload(ctx context.Context, category FileCategory, ownerID, fileName, contentType string, fileReader io.Reader, fileSize int64) (url string, err error)
	GetFile(ctx context.Context, objectName string) ([]byte, error)
	EnsureBucket(ctx context.Context) error
}

var Instance Provider

type impl struct {
	s3client *minio.Client
}

func NewInstance(s3client *minio.Client) {
	Instance = &impl{
		s3client: s3client,
	}
}

func (i impl) Upload(ctx context.Context, category FileCategory, ownerID, fileName, contentType string, fileReader io.Reader, fileSize int64) (url string, err error) {
	if !category.IsValid() {
		return "", models.NewError(models.KindValidation, "unknown file category")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	objectName := path.Join(string(category), ownerID, uuid.NewString()+"-"+fileName)
	_, err = i.s3client.PutObject(ctx, config.Conf.S3.BucketName, objectName, fileReader, fileSize,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, "failed to upload file")
	}
	return fmt.Sprintf("%s/%s/%s", config.Conf.S3.PublicBaseURL, config.Conf.S3.BucketName, objectName), nil
}

func (i impl) GetFile(ctx context.Context, objectName string) ([]byte, error) {
	object, err := i.s3client.GetObject(ctx, config.Conf.S3.BucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get file")
	}
	defer object.Close()
	return io.ReadAll(object)
}

func (i impl) EnsureBucket(ctx context.Context) error {
	bucketName := config.Conf.S3.BucketName
	exists, err := i.s3client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return i.s3client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: "us-east-1"})
}
