package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path"
	"time"

	"chatbot-backend/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var s3Client *s3.Client

// InitUploader initializes the S3 client used for branding asset uploads
func InitUploader() {
	s3Client = s3.NewFromConfig(config.AWSConfig)
	log.Println("✅ Asset uploader (S3) initialized.")
}

// UploadBrandingAsset uploads a widget branding image (logo or profile
// photo) to S3 and returns its public URL. Object keys are timestamped so
// a re-upload never overwrites the asset a live widget is still showing.
func UploadBrandingAsset(ctx context.Context, kind, filename, contentType string, data []byte) (string, error) {
	if s3Client == nil {
		return "", fmt.Errorf("uploader is not initialized")
	}

	uploader := manager.NewUploader(s3Client)

	key := fmt.Sprintf("branding/%s/%d%s", kind, time.Now().Unix(), path.Ext(filename))

	upInput := &s3.PutObjectInput{
		Bucket:      aws.String(config.AWSBucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}

	_, err := uploader.Upload(ctx, upInput)
	if err != nil {
		return "", fmt.Errorf("failed to upload asset to S3: %v", err)
	}

	assetURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", config.AWSBucketName, config.AWSRegion, key)
	return assetURL, nil
}
