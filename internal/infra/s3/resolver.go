package infra_s3

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ShivanshCoding36/college-companion/internal/config"
)

type ClientType string

const (
	ClientTypeRealS3 ClientType = "real"
	ClientTypeMock   ClientType = "mock"
)

func MustEstablishConn(cfg config.S3) *s3.Client {
	switch ClientType(cfg.ClientType) {
	case ClientTypeMock:
		log.Printf("[s3] using S3-compatible server at %s", cfg.Endpoint)
		return NewClient(cfg.Endpoint, cfg.Region, "mock", "mock")
	case ClientTypeRealS3:
		fallthrough
	default:
		return createRealClient(cfg)
	}
}

func createRealClient(cfg config.S3) *s3.Client {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		log.Fatal("[s3] failed to load aws config: ", err)
	}
	log.Printf("[s3] using S3 in region %s", awsCfg.Region)
	return s3.NewFromConfig(awsCfg)
}

// NewClient builds a path-style client for an S3-compatible server such as
// MinIO. Checksums are only sent when an operation requires them, which
// not every compatible server understands otherwise.
func NewClient(endpoint, region, accessKey, secretKey string) *s3.Client {
	return s3.New(s3.Options{
		Region:                     region,
		BaseEndpoint:               aws.String(endpoint),
		UsePathStyle:               true,
		Credentials:                aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
		ResponseChecksumValidation: aws.ResponseChecksumValidationWhenRequired,
	})
}
