package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/smartkitchen/backend/config"
)

// ImageService stores dish and ingredient thumbnails in S3.
type ImageService struct {
	s3Config *config.S3Config
	client   *http.Client
}

// NewImageService creates a new ImageService instance
func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{
		s3Config: s3Config,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// FetchAndStore downloads an image from a URL and re-hosts it in S3 so
// thumbnail references survive the source link going stale. On S3 failure
// the original URL is returned as a fallback.
func (s *ImageService) FetchAndStore(ctx context.Context, imageURL string) (string, error) {
	resp, err := s.client.Get(imageURL)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download image, status: %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read image data: %w", err)
	}

	fileName := fmt.Sprintf("dish-thumbnails/%s.png", uuid.New().String())

	s3URL, err := s.UploadImageToS3(ctx, imageData, fileName)
	if err != nil {
		log.Printf("[ImageService] Failed to upload to S3, returning original URL: %v", err)
		return imageURL, nil
	}
	return s3URL, nil
}

// UploadImageToS3 uploads image data to S3 and returns the public URL
func (s *ImageService) UploadImageToS3(ctx context.Context, imageData []byte, fileName string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("[ImageService] Successfully uploaded image to S3: %s", publicURL)

	return publicURL, nil
}
