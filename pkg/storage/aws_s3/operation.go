package aws_s3

import (
	"bytes"
	"context"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func (p *S3) objectKey(fileKey string) string {
	return path.Join(p.Config.CustomPath, fileKey)
}

func (p *S3) prefix() string {
	if p.Config.CustomPath == "" {
		return ""
	}
	return strings.TrimSuffix(p.Config.CustomPath, "/") + "/"
}

// SendContent 上传内容
func (p *S3) SendContent(ctx context.Context, fileKey string, content []byte, modTime time.Time) (string, error) {
	key := p.objectKey(fileKey)

	_, err := p.S3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:            aws.String(p.Config.BucketName),
		Key:               aws.String(key),
		Body:              bytes.NewReader(content),
		ContentType:       aws.String("application/json"),
		ChecksumAlgorithm: types.ChecksumAlgorithmSha256,
		Metadata:          map[string]string{"mtime": modTime.UTC().Format(time.RFC3339)},
	})
	if err != nil {
		var noBucket *types.NoSuchBucket
		if errors.As(err, &noBucket) {
			p.logger.Error("s3 bucket does not exist", zap.String("bucket", p.Config.BucketName))
		}
		return "", errors.Wrap(err, "aws_s3")
	}
	return key, nil
}

// List 列出 custom-path 下的对象名
func (p *S3) List(ctx context.Context) ([]string, error) {
	prefix := p.prefix()
	paginator := s3.NewListObjectsV2Paginator(p.S3Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(p.Config.BucketName),
		Prefix: aws.String(prefix),
	})

	var names []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "aws_s3")
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if name != "" && !strings.Contains(name, "/") {
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

func (p *S3) Delete(ctx context.Context, fileKey string) error {
	_, err := p.S3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.Config.BucketName),
		Key:    aws.String(p.objectKey(fileKey)),
	})
	if err != nil {
		return errors.Wrap(err, "aws_s3")
	}
	return nil
}
