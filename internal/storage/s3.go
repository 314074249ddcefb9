package storage

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"go.uber.org/zap"
)

type S3Client struct {
	s3     *s3.S3
	bucket string
}

func NewS3Client(region, bucket string) (*S3Client, error) {
	if bucket == "" {
		return nil, fmt.Errorf("S3 bucket 未配置")
	}
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}

	return &S3Client{
		s3:     s3.New(sess),
		bucket: bucket,
	}, nil
}

func (c *S3Client) UploadFile(ctx context.Context, file *multipart.FileHeader, key string) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	_, err = c.s3.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(file.Size),
		ContentType:   aws.String(file.Header.Get("Content-Type")),
	})
	if err != nil {
		util.Logger.Error("上传到 S3 失败", zap.Error(err), zap.String("key", key))
		return "", err
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", c.bucket, key), nil
}
