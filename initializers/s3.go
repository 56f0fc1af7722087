package initializers

import (
	"context"

	log "github.com/sirupsen/logrus"
	filestorage "teamtrack-backend/lib/file-storage"
	s3client "teamtrack-backend/s3"
)

func InitS3() {
	minioClient, err := s3client.NewClient()
	if err != nil {
		log.WithError(err).Error("failed to initialize S3 client")
		return
	}
	s3client.Client = minioClient
	filestorage.NewInstance(minioClient)

	err = filestorage.Instance.EnsureBucket(context.Background())
	if err != nil {
		log.WithError(err).Error("failed to ensure S3 bucket")
	}
	log.Info("S3 client initialized")
}
