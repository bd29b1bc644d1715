package cianparser

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"github.com/gabriel-vasile/mimetype"
)

// UploadToBucket copies sourceFileName to gs://bucketName/destinationFileName.
func UploadToBucket(ctx context.Context, config *configService, logger Logger, bucketName, sourceFileName, destinationFileName string) error {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	client, err := storage.NewClient(ctx, credentialOptions(config)...)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}
	defer client.Close()

	file, err := os.Open(sourceFileName)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", sourceFileName, err)
	}
	defer file.Close()

	writer := client.Bucket(bucketName).Object(destinationFileName).NewWriter(ctx)
	writer.ContentType = detectContentType(sourceFileName)

	if _, err := io.Copy(writer, file); err != nil {
		writer.Close()
		return fmt.Errorf("failed to copy file data to bucket %s: %w", bucketName, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer for file %s: %w", destinationFileName, err)
	}

	logger.Info("File %s uploaded to bucket successfully. Time taken: %s", sourceFileName, time.Since(startTime))
	return nil
}

// detectContentType sniffs the file, defaulting to a binary stream.
func detectContentType(filePath string) string {
	mime, err := mimetype.DetectFile(filePath)
	if err != nil {
		return "application/octet-stream"
	}
	return mime.String()
}
